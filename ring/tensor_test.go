package ring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTensorAddSub(t *testing.T) {
	a, err := FromSlice(Shape{2, 2}, []Element{1, 2, 3, 4}, CPU)
	require.NoError(t, err)
	b, err := FromSlice(Shape{2, 2}, []Element{10, 20, 30, 40}, CPU)
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, []Element{11, 22, 33, 44}, sum.Data())

	diff, err := sum.Sub(b)
	require.NoError(t, err)
	require.True(t, diff.Equal(a))
}

func TestTensorWraparound(t *testing.T) {
	a := New(Shape{1}, CPU)
	a.Set(0, Element(math.MaxInt64))
	one := New(Shape{1}, CPU)
	one.Set(0, 1)
	sum, err := a.Add(one)
	require.NoError(t, err)
	require.Equal(t, Element(math.MinInt64), sum.At(0))
}

func TestMulScalarAndDivTrunc(t *testing.T) {
	a, err := FromSlice(Shape{3}, []Element{-7, 7, 0}, CPU)
	require.NoError(t, err)
	scaled := a.MulScalar(3)
	require.Equal(t, []Element{-21, 21, 0}, scaled.Data())

	divided := scaled.DivTruncScalar(3)
	require.True(t, divided.Equal(a))
}

func TestReshapeAndFlatten(t *testing.T) {
	a, err := FromSlice(Shape{2, 3}, []Element{1, 2, 3, 4, 5, 6}, CPU)
	require.NoError(t, err)
	r, err := a.Reshape(Shape{3, 2})
	require.NoError(t, err)
	require.Equal(t, Shape{3, 2}, r.Shape())
	require.Equal(t, a.Data(), r.Flatten().Data())

	_, err = a.Reshape(Shape{4, 4})
	require.Error(t, err)
}

func TestTranspose2D(t *testing.T) {
	a, err := FromSlice(Shape{2, 3}, []Element{1, 2, 3, 4, 5, 6}, CPU)
	require.NoError(t, err)
	tr, err := a.Transpose2D()
	require.NoError(t, err)
	require.Equal(t, Shape{3, 2}, tr.Shape())
	require.Equal(t, []Element{1, 4, 2, 5, 3, 6}, tr.Data())
}

func TestConcatAndStack(t *testing.T) {
	a, err := FromSlice(Shape{1, 2}, []Element{1, 2}, CPU)
	require.NoError(t, err)
	b, err := FromSlice(Shape{1, 2}, []Element{3, 4}, CPU)
	require.NoError(t, err)

	cat, err := Concat(0, a, b)
	require.NoError(t, err)
	require.Equal(t, Shape{2, 2}, cat.Shape())
	require.Equal(t, []Element{1, 2, 3, 4}, cat.Data())

	stacked, err := Stack(0, a, b)
	require.NoError(t, err)
	require.Equal(t, Shape{2, 1, 2}, stacked.Shape())
}

func TestSumAndCumSum(t *testing.T) {
	a, err := FromSlice(Shape{4}, []Element{1, 2, 3, 4}, CPU)
	require.NoError(t, err)
	require.Equal(t, Element(10), a.Sum().At(0))

	cum, err := a.CumSum(0)
	require.NoError(t, err)
	require.Equal(t, []Element{1, 3, 6, 10}, cum.Data())
}

func TestPad(t *testing.T) {
	a, err := FromSlice(Shape{2, 2}, []Element{1, 2, 3, 4}, CPU)
	require.NoError(t, err)
	padded, err := a.Pad([]int{1, 1, 0, 0}, 0)
	require.NoError(t, err)
	require.Equal(t, Shape{2, 4}, padded.Shape())
	require.Equal(t, []Element{0, 1, 2, 0, 0, 3, 4, 0}, padded.Data())
}

func TestMatMul(t *testing.T) {
	a, err := FromSlice(Shape{2, 2}, []Element{1, 2, 3, 4}, CPU)
	require.NoError(t, err)
	b, err := FromSlice(Shape{2, 2}, []Element{5, 6, 7, 8}, CPU)
	require.NoError(t, err)
	out, err := MatMul(a, b)
	require.NoError(t, err)
	require.Equal(t, []Element{19, 22, 43, 50}, out.Data())
}

func TestConv1D(t *testing.T) {
	x, err := FromSlice(Shape{1, 1, 4}, []Element{1, 2, 3, 4}, CPU)
	require.NoError(t, err)
	kernel, err := FromSlice(Shape{1, 1, 2}, []Element{1, 1}, CPU)
	require.NoError(t, err)
	out, err := Conv1D(x, kernel, ConvParams{})
	require.NoError(t, err)
	require.Equal(t, []Element{3, 5, 7}, out.Data())
}
