package network

import (
	bare "git.sr.ht/~sircmpwn/go-bare"

	"github.com/TEENet-io/mpctensor/ring"
)

// wireShape is the BARE-encodable wire form of a ring.Shape: a
// length-prefixed list of dimensions, which is exactly BARE's sweet spot
// for compact fixed-structure metadata.
type wireShape struct {
	Dims []int64 `bare:"dims"`
}

// EncodeShape serializes a shape for BroadcastObj.
func EncodeShape(shape ring.Shape) ([]byte, error) {
	w := wireShape{Dims: make([]int64, len(shape))}
	for i, d := range shape {
		w.Dims[i] = int64(d)
	}
	return bare.Marshal(&w)
}

// DecodeShape deserializes a shape encoded by EncodeShape.
func DecodeShape(data []byte) (ring.Shape, error) {
	var w wireShape
	if err := bare.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	shape := make(ring.Shape, len(w.Dims))
	for i, d := range w.Dims {
		shape[i] = int(d)
	}
	return shape, nil
}

// wireTensor is the BARE-encodable wire form of a ring.Tensor share: its
// shape plus its flat row-major data. LocalCommunicator does not use it:
// it hands tensors between parties in memory.
type wireTensor struct {
	Shape []int64 `bare:"shape"`
	Data  []int64 `bare:"data"`
}

// EncodeTensor serializes t for transport or fixture storage.
func EncodeTensor(t *ring.Tensor) ([]byte, error) {
	shape := t.Shape()
	data := t.Data()
	w := wireTensor{
		Shape: make([]int64, len(shape)),
		Data:  make([]int64, len(data)),
	}
	for i, d := range shape {
		w.Shape[i] = int64(d)
	}
	for i, v := range data {
		w.Data[i] = int64(v)
	}
	return bare.Marshal(&w)
}

// DecodeTensor deserializes a tensor encoded by EncodeTensor.
func DecodeTensor(raw []byte, device ring.Device) (*ring.Tensor, error) {
	var w wireTensor
	if err := bare.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	shape := make(ring.Shape, len(w.Shape))
	for i, d := range w.Shape {
		shape[i] = int(d)
	}
	data := make([]ring.Element, len(w.Data))
	for i, v := range w.Data {
		data[i] = ring.Element(v)
	}
	return ring.FromSlice(shape, data, device)
}
