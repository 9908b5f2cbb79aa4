package ring

import "fmt"

// ConvParams carries the stride/padding/dilation configuration for the
// convolution helpers below. Groups > 1 is not supported.
type ConvParams struct {
	Stride, Padding, Dilation int
}

func (p ConvParams) withDefaults() ConvParams {
	if p.Stride == 0 {
		p.Stride = 1
	}
	if p.Dilation == 0 {
		p.Dilation = 1
	}
	return p
}

// Conv1D computes a cross-correlation of x (shape [N, Cin, L]) with kernel
// (shape [Cout, Cin, K]), the convention PyTorch (and therefore the
// original spec) calls conv1d.
func Conv1D(x, kernel *Tensor, p ConvParams) (*Tensor, error) {
	p = p.withDefaults()
	if x.Dim() != 3 || kernel.Dim() != 3 {
		return nil, fmt.Errorf("conv1d: expected rank-3 input and kernel, got %d and %d", x.Dim(), kernel.Dim())
	}
	n, cin, l := x.Size(0), x.Size(1), x.Size(2)
	cout, cinK, k := kernel.Size(0), kernel.Size(1), kernel.Size(2)
	if cin != cinK {
		return nil, fmt.Errorf("conv1d: input channels %d do not match kernel %d", cin, cinK)
	}
	lOut := (l+2*p.Padding-p.Dilation*(k-1)-1)/p.Stride + 1
	out := New(Shape{n, cout, lOut}, x.Device())
	xData, kData, oData := x.Data(), kernel.Data(), out.Data()

	for ni := 0; ni < n; ni++ {
		for co := 0; co < cout; co++ {
			for lo := 0; lo < lOut; lo++ {
				var acc Element
				for ci := 0; ci < cin; ci++ {
					for kk := 0; kk < k; kk++ {
						li := lo*p.Stride - p.Padding + kk*p.Dilation
						if li < 0 || li >= l {
							continue
						}
						xi := (ni*cin+ci)*l + li
						ki := (co*cin+ci)*k + kk
						acc += xData[xi] * kData[ki]
					}
				}
				oData[(ni*cout+co)*lOut+lo] = acc
			}
		}
	}
	return out, nil
}

// Conv2D computes a cross-correlation of x (shape [N, Cin, H, W]) with
// kernel (shape [Cout, Cin, Kh, Kw]).
func Conv2D(x, kernel *Tensor, strideH, strideW, padH, padW, dilH, dilW int) (*Tensor, error) {
	if strideH == 0 {
		strideH = 1
	}
	if strideW == 0 {
		strideW = 1
	}
	if dilH == 0 {
		dilH = 1
	}
	if dilW == 0 {
		dilW = 1
	}
	if x.Dim() != 4 || kernel.Dim() != 4 {
		return nil, fmt.Errorf("conv2d: expected rank-4 input and kernel, got %d and %d", x.Dim(), kernel.Dim())
	}
	n, cin, h, w := x.Size(0), x.Size(1), x.Size(2), x.Size(3)
	cout, cinK, kh, kw := kernel.Size(0), kernel.Size(1), kernel.Size(2), kernel.Size(3)
	if cin != cinK {
		return nil, fmt.Errorf("conv2d: input channels %d do not match kernel %d", cin, cinK)
	}
	hOut := (h+2*padH-dilH*(kh-1)-1)/strideH + 1
	wOut := (w+2*padW-dilW*(kw-1)-1)/strideW + 1
	out := New(Shape{n, cout, hOut, wOut}, x.Device())
	xData, kData, oData := x.Data(), kernel.Data(), out.Data()

	for ni := 0; ni < n; ni++ {
		for co := 0; co < cout; co++ {
			for ho := 0; ho < hOut; ho++ {
				for wo := 0; wo < wOut; wo++ {
					var acc Element
					for ci := 0; ci < cin; ci++ {
						for khh := 0; khh < kh; khh++ {
							hi := ho*strideH - padH + khh*dilH
							if hi < 0 || hi >= h {
								continue
							}
							for kww := 0; kww < kw; kww++ {
								wi := wo*strideW - padW + kww*dilW
								if wi < 0 || wi >= w {
									continue
								}
								xi := ((ni*cin+ci)*h+hi)*w + wi
								ki := ((co*cin+ci)*kh+khh)*kw + kww
								acc += xData[xi] * kData[ki]
							}
						}
					}
					oData[((ni*cout+co)*hOut+ho)*wOut+wo] = acc
				}
			}
		}
	}
	return out, nil
}

// ConvTranspose1D computes the transpose (gradient w.r.t. input) of
// Conv1D: x has shape [N, Cin, L], kernel has shape [Cin, Cout, K].
func ConvTranspose1D(x, kernel *Tensor, p ConvParams) (*Tensor, error) {
	p = p.withDefaults()
	if x.Dim() != 3 || kernel.Dim() != 3 {
		return nil, fmt.Errorf("conv_transpose1d: expected rank-3 input and kernel, got %d and %d", x.Dim(), kernel.Dim())
	}
	n, cin, l := x.Size(0), x.Size(1), x.Size(2)
	cinK, cout, k := kernel.Size(0), kernel.Size(1), kernel.Size(2)
	if cin != cinK {
		return nil, fmt.Errorf("conv_transpose1d: input channels %d do not match kernel %d", cin, cinK)
	}
	lOut := (l-1)*p.Stride - 2*p.Padding + p.Dilation*(k-1) + 1
	out := New(Shape{n, cout, lOut}, x.Device())
	xData, kData, oData := x.Data(), kernel.Data(), out.Data()

	for ni := 0; ni < n; ni++ {
		for ci := 0; ci < cin; ci++ {
			for li := 0; li < l; li++ {
				xi := (ni*cin+ci)*l + li
				xv := xData[xi]
				if xv == 0 {
					continue
				}
				for co := 0; co < cout; co++ {
					for kk := 0; kk < k; kk++ {
						lo := li*p.Stride - p.Padding + kk*p.Dilation
						if lo < 0 || lo >= lOut {
							continue
						}
						ki := (ci*cout+co)*k + kk
						oi := (ni*cout+co)*lOut + lo
						oData[oi] += xv * kData[ki]
					}
				}
			}
		}
	}
	return out, nil
}

// ConvTranspose2D computes the transpose of Conv2D: x has shape
// [N, Cin, H, W], kernel has shape [Cin, Cout, Kh, Kw].
func ConvTranspose2D(x, kernel *Tensor, strideH, strideW, padH, padW, dilH, dilW int) (*Tensor, error) {
	if strideH == 0 {
		strideH = 1
	}
	if strideW == 0 {
		strideW = 1
	}
	if dilH == 0 {
		dilH = 1
	}
	if dilW == 0 {
		dilW = 1
	}
	if x.Dim() != 4 || kernel.Dim() != 4 {
		return nil, fmt.Errorf("conv_transpose2d: expected rank-4 input and kernel, got %d and %d", x.Dim(), kernel.Dim())
	}
	n, cin, h, w := x.Size(0), x.Size(1), x.Size(2), x.Size(3)
	cinK, cout, kh, kw := kernel.Size(0), kernel.Size(1), kernel.Size(2), kernel.Size(3)
	if cin != cinK {
		return nil, fmt.Errorf("conv_transpose2d: input channels %d do not match kernel %d", cin, cinK)
	}
	hOut := (h-1)*strideH - 2*padH + dilH*(kh-1) + 1
	wOut := (w-1)*strideW - 2*padW + dilW*(kw-1) + 1
	out := New(Shape{n, cout, hOut, wOut}, x.Device())
	xData, kData, oData := x.Data(), kernel.Data(), out.Data()

	for ni := 0; ni < n; ni++ {
		for ci := 0; ci < cin; ci++ {
			for hi := 0; hi < h; hi++ {
				for wi := 0; wi < w; wi++ {
					xi := ((ni*cin+ci)*h+hi)*w + wi
					xv := xData[xi]
					if xv == 0 {
						continue
					}
					for co := 0; co < cout; co++ {
						for khh := 0; khh < kh; khh++ {
							ho := hi*strideH - padH + khh*dilH
							if ho < 0 || ho >= hOut {
								continue
							}
							for kww := 0; kww < kw; kww++ {
								wo := wi*strideW - padW + kww*dilW
								if wo < 0 || wo >= wOut {
									continue
								}
								ki := ((ci*cout+co)*kh+khh)*kw + kww
								oi := ((ni*cout+co)*hOut+ho)*wOut + wo
								oData[oi] += xv * kData[ki]
							}
						}
					}
				}
			}
		}
	}
	return out, nil
}

// AvgPool2DSum performs sum-pooling (average pooling with the divisor
// overridden to 1): the caller divides by
// the kernel area afterward as a public-integer division.
func AvgPool2DSum(x *Tensor, kh, kw, strideH, strideW, padH, padW int) (*Tensor, error) {
	if strideH == 0 {
		strideH = kh
	}
	if strideW == 0 {
		strideW = kw
	}
	if x.Dim() != 4 {
		return nil, fmt.Errorf("avg_pool2d: expected rank-4 input, got %d", x.Dim())
	}
	n, c, h, w := x.Size(0), x.Size(1), x.Size(2), x.Size(3)
	hOut := (h+2*padH-kh)/strideH + 1
	wOut := (w+2*padW-kw)/strideW + 1
	out := New(Shape{n, c, hOut, wOut}, x.Device())
	xData, oData := x.Data(), out.Data()

	for ni := 0; ni < n; ni++ {
		for ci := 0; ci < c; ci++ {
			for ho := 0; ho < hOut; ho++ {
				for wo := 0; wo < wOut; wo++ {
					var acc Element
					for khh := 0; khh < kh; khh++ {
						hi := ho*strideH - padH + khh
						if hi < 0 || hi >= h {
							continue
						}
						for kww := 0; kww < kw; kww++ {
							wi := wo*strideW - padW + kww
							if wi < 0 || wi >= w {
								continue
							}
							acc += xData[((ni*c+ci)*h+hi)*w+wi]
						}
					}
					oData[((ni*c+ci)*hOut+ho)*wOut+wo] = acc
				}
			}
		}
	}
	return out, nil
}
