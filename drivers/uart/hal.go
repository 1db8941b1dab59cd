package uart

// HAL is the register-level boundary of a UART. Start* arm a transfer and
// return at once; the peripheral raises its interrupt when a transfer
// completes. ProcessInterrupts runs in the handler, clears the interrupt
// condition and reports which directions finished; Finish* then collect
// the outcome.
type HAL interface {
	StartRead(buf []byte) error
	StartWrite(buf []byte) error
	ProcessInterrupts() (txDone, rxDone bool)
	FinishRead() (int, error)
	FinishWrite() (int, error)
}
