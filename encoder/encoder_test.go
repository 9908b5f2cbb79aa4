package encoder

import (
	"testing"

	"github.com/TEENet-io/mpctensor/ring"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := New(DefaultPrecisionBits)
	values := []float64{1.5, -2.25, 0, 100.0625}
	encoded, err := e.Encode(ring.Shape{4}, values, ring.CPU)
	require.NoError(t, err)
	decoded := e.Decode(encoded)
	for i := range values {
		require.InDelta(t, values[i], decoded[i], 1e-9)
	}
}

func TestScaleOneRejectsFractional(t *testing.T) {
	e := New(0)
	require.True(t, e.IsInteger())
	_, err := e.EncodeScalar(1.5)
	require.Error(t, err)
	v, err := e.EncodeScalar(3)
	require.NoError(t, err)
	require.Equal(t, ring.Element(3), v)
}

func TestScaleElement(t *testing.T) {
	e := New(16)
	require.Equal(t, int64(1<<16), e.ScaleElement())
}
