package share_test

import (
	"sync"
	"testing"

	"github.com/TEENet-io/mpctensor/beaver"
	"github.com/TEENet-io/mpctensor/encoder"
	"github.com/TEENet-io/mpctensor/network"
	"github.com/TEENet-io/mpctensor/ring"
	"github.com/TEENet-io/mpctensor/share"
	"github.com/stretchr/testify/require"
)

// runParties runs fn once per party, each in its own goroutine: every
// party must call the same sequence of collectives in the same order.
func runParties(t *testing.T, n int, fn func(rank int, e share.Engine) error) {
	t.Helper()
	comms, err := network.NewLocalRing(n, []byte("share-test-root-seed"))
	require.NoError(t, err)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(rank int) {
			defer wg.Done()
			comm := comms[rank]
			e := share.Engine{Comm: comm, Oracle: &beaver.TrustedDealerOracle{Comm: comm}}
			errs[rank] = fn(rank, e)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
}

func TestRevealRoundTrip(t *testing.T) {
	for _, n := range []int{2, 3, 5} {
		input := []float64{3.25, -1.5, 0, 42}
		runParties(t, n, func(rank int, e share.Engine) error {
			var values []float64
			if rank == 0 {
				values = input
			}
			tns, err := share.New(e, values, ring.Shape{len(input)}, true, encoder.DefaultPrecisionBits, 0)
			if err != nil {
				return err
			}
			decoded, err := tns.GetPlainText()
			if err != nil {
				return err
			}
			for i := range input {
				require.InDelta(t, input[i], decoded[i], 1e-6)
			}
			return nil
		})
	}
}

func TestPRZSSumsToZero(t *testing.T) {
	for _, n := range []int{2, 3, 5} {
		runParties(t, n, func(rank int, e share.Engine) error {
			z, err := share.PRZS(e, ring.Shape{16}, encoder.DefaultPrecisionBits)
			if err != nil {
				return err
			}
			revealed, err := z.Reveal()
			if err != nil {
				return err
			}
			for i := 0; i < revealed.NumElement(); i++ {
				require.Equal(t, ring.Element(0), revealed.At(i))
			}
			return nil
		})
	}
}

func TestAddLocal(t *testing.T) {
	runParties(t, 3, func(rank int, e share.Engine) error {
		var av, bv []float64
		if rank == 0 {
			av, bv = []float64{1, 2, 3}, []float64{10, 20, 30}
		}
		a, err := share.New(e, av, ring.Shape{3}, true, encoder.DefaultPrecisionBits, 0)
		if err != nil {
			return err
		}
		b, err := share.New(e, bv, ring.Shape{3}, true, encoder.DefaultPrecisionBits, 0)
		if err != nil {
			return err
		}
		sum, err := a.Add(b)
		if err != nil {
			return err
		}
		decoded, err := sum.GetPlainText()
		if err != nil {
			return err
		}
		want := []float64{11, 22, 33}
		for i := range want {
			require.InDelta(t, want[i], decoded[i], 1e-6)
		}
		return nil
	})
}

func TestMulAndMatMul(t *testing.T) {
	runParties(t, 2, func(rank int, e share.Engine) error {
		var av, bv []float64
		if rank == 0 {
			av, bv = []float64{2, 3}, []float64{4, 5}
		}
		a, err := share.New(e, av, ring.Shape{2}, true, encoder.DefaultPrecisionBits, 0)
		if err != nil {
			return err
		}
		b, err := share.New(e, bv, ring.Shape{2}, true, encoder.DefaultPrecisionBits, 0)
		if err != nil {
			return err
		}
		prod, err := a.Mul(b)
		if err != nil {
			return err
		}
		decoded, err := prod.GetPlainText()
		if err != nil {
			return err
		}
		require.InDelta(t, 8.0, decoded[0], 1e-6)
		require.InDelta(t, 15.0, decoded[1], 1e-6)

		dot, err := a.Dot(b)
		if err != nil {
			return err
		}
		dotVal, err := dot.GetPlainText()
		if err != nil {
			return err
		}
		require.InDelta(t, 23.0, dotVal[0], 1e-6)
		return nil
	})
}

func TestDivPublicInt(t *testing.T) {
	runParties(t, 3, func(rank int, e share.Engine) error {
		var v []float64
		if rank == 0 {
			v = []float64{12345}
		}
		x, err := share.New(e, v, ring.Shape{1}, true, 0, 0)
		if err != nil {
			return err
		}
		divided, err := x.DivPublicInt(7)
		if err != nil {
			return err
		}
		decoded, err := divided.GetPlainText()
		if err != nil {
			return err
		}
		require.Equal(t, float64(12345/7), decoded[0])
		return nil
	})
}

func TestDivPublicIntNegative(t *testing.T) {
	runParties(t, 2, func(rank int, e share.Engine) error {
		var v []float64
		if rank == 0 {
			v = []float64{-100}
		}
		x, err := share.New(e, v, ring.Shape{1}, true, 0, 0)
		if err != nil {
			return err
		}
		divided, err := x.DivPublicInt(3)
		if err != nil {
			return err
		}
		decoded, err := divided.GetPlainText()
		if err != nil {
			return err
		}
		require.Equal(t, float64(-100/3), decoded[0])
		return nil
	})
}

func TestMean(t *testing.T) {
	runParties(t, 3, func(rank int, e share.Engine) error {
		var v []float64
		if rank == 0 {
			v = []float64{1, 2, 3, 4}
		}
		x, err := share.New(e, v, ring.Shape{4}, true, encoder.DefaultPrecisionBits, 0)
		if err != nil {
			return err
		}
		mean, err := x.Mean()
		if err != nil {
			return err
		}
		decoded, err := mean.GetPlainText()
		if err != nil {
			return err
		}
		require.InDelta(t, 2.5, decoded[0], 1e-3)
		return nil
	})
}
