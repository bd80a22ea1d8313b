package sample

import (
	"errors"
)

// ErrInvalidFactor is returned when the reduction factor is not positive
var ErrInvalidFactor = errors.New("reduction factor must be >= 1")

// Reduce downsamples a grid by block-averaging. For factor f the grid is
// cropped to the largest dimensions evenly divisible by f in both spatial
// axes (trailing partial blocks are discarded, never padded), then every
// f x f block is averaged per channel. A factor of 1 is the identity and
// returns the input unchanged.
func Reduce(s *Sample, factor int) (*Sample, error) {
	if factor < 1 {
		return nil, ErrInvalidFactor
	}

	if factor == 1 {
		return s, nil
	}

	outH := s.Height / factor
	outW := s.Width / factor
	if outH == 0 || outW == 0 {
		return nil, ErrEmptySample
	}

	out := New(outH, outW)
	norm := float64(factor * factor)

	for oy := 0; oy < outH; oy++ {
		for ox := 0; ox < outW; ox++ {
			var sums [Channels]float64

			for by := 0; by < factor; by++ {
				row := (oy*factor + by) * s.Width
				for bx := 0; bx < factor; bx++ {
					base := (row + ox*factor + bx) * Channels
					for c := 0; c < Channels; c++ {
						sums[c] += float64(s.Data[base+c])
					}
				}
			}

			for c := 0; c < Channels; c++ {
				out.Data[(oy*outW+ox)*Channels+c] = float32(sums[c] / norm)
			}
		}
	}

	return out, nil
}
