package ring

import "fmt"

// MatMul multiplies two rank-2 tensors, or batches of rank-2 tensors
// sharing a leading batch dimension (rank-3, [B, M, K] x [B, K, N]).
func MatMul(a, b *Tensor) (*Tensor, error) {
	switch {
	case a.Dim() == 2 && b.Dim() == 2:
		return matmul2D(a, b)
	case a.Dim() == 3 && b.Dim() == 3:
		if a.Size(0) != b.Size(0) {
			return nil, fmt.Errorf("matmul: batch size mismatch %d vs %d", a.Size(0), b.Size(0))
		}
		batch := a.Size(0)
		outs := make([]*Tensor, batch)
		for i := 0; i < batch; i++ {
			ai, err := a.Slice(0, i, i+1)
			if err != nil {
				return nil, err
			}
			bi, err := b.Slice(0, i, i+1)
			if err != nil {
				return nil, err
			}
			ai2, _ := ai.Reshape(Shape{a.Size(1), a.Size(2)})
			bi2, _ := bi.Reshape(Shape{b.Size(1), b.Size(2)})
			r, err := matmul2D(ai2, bi2)
			if err != nil {
				return nil, err
			}
			r3, _ := r.Reshape(Shape{1, r.Size(0), r.Size(1)})
			outs[i] = r3
		}
		return Concat(0, outs...)
	default:
		return nil, fmt.Errorf("matmul: unsupported ranks %d and %d", a.Dim(), b.Dim())
	}
}

func matmul2D(a, b *Tensor) (*Tensor, error) {
	if a.Dim() != 2 || b.Dim() != 2 {
		return nil, fmt.Errorf("matmul: expected rank-2 tensors, got %d and %d", a.Dim(), b.Dim())
	}
	m, k := a.Size(0), a.Size(1)
	k2, n := b.Size(0), b.Size(1)
	if k != k2 {
		return nil, fmt.Errorf("matmul: inner dims mismatch %d vs %d", k, k2)
	}
	out := New(Shape{m, n}, a.Device())
	aData, bData, oData := a.Data(), b.Data(), out.Data()
	for i := 0; i < m; i++ {
		for p := 0; p < k; p++ {
			av := aData[i*k+p]
			if av == 0 {
				continue
			}
			rowB := p * n
			rowO := i * n
			for j := 0; j < n; j++ {
				oData[rowO+j] += av * bData[rowB+j]
			}
		}
	}
	return out, nil
}
