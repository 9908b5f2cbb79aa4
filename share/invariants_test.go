package share_test

import (
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/TEENet-io/mpctensor/beaver"
	"github.com/TEENet-io/mpctensor/encoder"
	"github.com/TEENet-io/mpctensor/network"
	"github.com/TEENet-io/mpctensor/ring"
	"github.com/TEENet-io/mpctensor/share"
)

// run spins up n parties sharing one LocalCommunicator ring and a
// TrustedDealerOracle and runs fn on each, collecting the first error.
// Unlike the runParties helper in share_test.go, this one returns an error
// instead of taking a *testing.T, since ginkgo specs assert with
// Expect(...), not require.
func run(n int, fn func(rank int, e share.Engine) error) error {
	comms, err := network.NewLocalRing(n, []byte("share-invariants-root-seed"))
	if err != nil {
		return err
	}
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
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func sharedVector(e share.Engine, rank int, values []float64) (*share.Tensor, error) {
	var v []float64
	if rank == 0 {
		v = values
	}
	return share.New(e, v, ring.Shape{len(values)}, true, encoder.DefaultPrecisionBits, 0)
}

var _ = Describe("additive sharing invariants", func() {
	for _, n := range []int{2, 3, 5} {
		n := n

		Context(fmt.Sprintf("with %d parties", n), func() {
			It("reconstructs a shared vector exactly", func() {
				input := []float64{1.25, -4.5, 0, 16}
				err := run(n, func(rank int, e share.Engine) error {
					x, err := sharedVector(e, rank, input)
					if err != nil {
						return err
					}
					decoded, err := x.GetPlainText()
					if err != nil {
						return err
					}
					for i := range input {
						if diff := decoded[i] - input[i]; diff > 1e-6 || diff < -1e-6 {
							return fmt.Errorf("mismatch at %d: got %v want %v", i, decoded[i], input[i])
						}
					}
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("draws a PRZS tensor whose shares sum to zero", func() {
				err := run(n, func(rank int, e share.Engine) error {
					z, err := share.PRZS(e, ring.Shape{12}, encoder.DefaultPrecisionBits)
					if err != nil {
						return err
					}
					revealed, err := z.Reveal()
					if err != nil {
						return err
					}
					for i := 0; i < revealed.NumElement(); i++ {
						if revealed.At(i) != 0 {
							return fmt.Errorf("przs element %d is nonzero: %v", i, revealed.At(i))
						}
					}
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("keeps public scalar ops local and scale-preserving", func() {
				err := run(n, func(rank int, e share.Engine) error {
					x, err := sharedVector(e, rank, []float64{2, 4, 8})
					if err != nil {
						return err
					}
					scaled, err := x.MulPublicFloat(1.5)
					if err != nil {
						return err
					}
					if scaled.Encoder().ScaleElement() != x.Encoder().ScaleElement() {
						return fmt.Errorf("public scalar multiply changed scale")
					}
					decoded, err := scaled.GetPlainText()
					if err != nil {
						return err
					}
					want := []float64{3, 6, 12}
					for i := range want {
						if diff := decoded[i] - want[i]; diff > 1e-6 || diff < -1e-6 {
							return fmt.Errorf("mismatch at %d: got %v want %v", i, decoded[i], want[i])
						}
					}
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("rescales a product back to the operands' shared scale", func() {
				err := run(n, func(rank int, e share.Engine) error {
					a, err := sharedVector(e, rank, []float64{1.5, 2.5})
					if err != nil {
						return err
					}
					b, err := sharedVector(e, rank, []float64{2.0, 4.0})
					if err != nil {
						return err
					}
					prod, err := a.Mul(b)
					if err != nil {
						return err
					}
					if prod.Encoder().ScaleElement() != a.Encoder().ScaleElement() {
						return fmt.Errorf("product scale %d does not match operand scale %d",
							prod.Encoder().ScaleElement(), a.Encoder().ScaleElement())
					}
					decoded, err := prod.GetPlainText()
					if err != nil {
						return err
					}
					want := []float64{3.0, 10.0}
					for i := range want {
						if diff := decoded[i] - want[i]; diff > 1e-6 || diff < -1e-6 {
							return fmt.Errorf("mismatch at %d: got %v want %v", i, decoded[i], want[i])
						}
					}
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("corrects truncated public-integer division for negative values", func() {
				err := run(n, func(rank int, e share.Engine) error {
					var v []float64
					if rank == 0 {
						v = []float64{-4321}
					}
					x, err := share.New(e, v, ring.Shape{1}, true, 0, 0)
					if err != nil {
						return err
					}
					divided, err := x.DivPublicInt(11)
					if err != nil {
						return err
					}
					decoded, err := divided.GetPlainText()
					if err != nil {
						return err
					}
					want := float64(-4321 / 11)
					if decoded[0] != want {
						return fmt.Errorf("got %v want %v", decoded[0], want)
					}
					return nil
				})
				Expect(err).NotTo(HaveOccurred())
			})
		})
	}
})
