package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONCodec_compact(t *testing.T) {
	type reading struct {
		Seq   int     `json:"seq"`
		Value float64 `json:"value"`
	}

	b, err := Default.Marshal(reading{Seq: 1, Value: 2.5})
	require.NoError(t, err)
	require.JSONEq(t, `{"seq":1,"value":2.5}`, string(b))
	require.NotContains(t, string(b), "\n")

	var got reading
	require.NoError(t, Default.Unmarshal(b, &got))
	require.Equal(t, reading{Seq: 1, Value: 2.5}, got)

	require.Error(t, Default.Unmarshal([]byte("{"), &got))
}
