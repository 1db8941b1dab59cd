// Package device wires actors into a running device.
//
// A [Device] owns the executor, the interrupt controller and the logger.
// Drivers and applications ship as [Package] values that register their
// actors on Mount and hand back the address callers talk to. All mounting
// happens before Run; after that the actor table is frozen.
//
//	dev := device.New(device.Config{Log: log})
//	uartAddr := device.Mount(dev, uart.New(hal, uart.Config{IRQ: 4}))
//	app := device.Spawn(dev, "app", &sensor{uart: uartAddr})
//	_ = app
//	if err := dev.Run(ctx); err != nil {
//	    log.Error("device stopped", slog.Any("error", err))
//	}
package device
