package pipeline

import (
	"fmt"
	"image"
	"math"
)

// Stats summarises the intensity distribution of an image.
type Stats struct {
	Min   uint8
	Max   uint8
	Mean  float64
	Count int
}

func (s Stats) String() string {
	return fmt.Sprintf("min=%d max=%d avg=%.2f", s.Min, s.Max, s.Mean)
}

// IsBinary reports whether only 0 and 255 occur in img.
func IsBinary(img *image.Gray) bool {
	for _, v := range Pixels(img) {
		if v != 0 && v != 255 {
			return false
		}
	}
	return true
}

func CalculateStats(img *image.Gray) Stats {
	pixels := Pixels(img)
	if len(pixels) == 0 {
		return Stats{}
	}

	st := Stats{Min: 255, Count: len(pixels)}
	var sum int64
	for _, v := range pixels {
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
		sum += int64(v)
	}
	st.Mean = float64(sum) / float64(len(pixels))
	return st
}

// Mismatch is a pixel where two images disagree.
type Mismatch struct {
	X, Y      int
	Want, Got uint8
}

// Compare returns the positions where got differs from want, up to limit
// entries (0 for no limit).
func Compare(want, got *image.Gray, limit int) ([]Mismatch, error) {
	wb, gb := want.Bounds(), got.Bounds()
	if wb.Dx() != gb.Dx() || wb.Dy() != gb.Dy() {
		return nil, fmt.Errorf("image dimensions must match: %dx%d vs %dx%d", wb.Dx(), wb.Dy(), gb.Dx(), gb.Dy())
	}

	var out []Mismatch
	for y := 0; y < wb.Dy(); y++ {
		for x := 0; x < wb.Dx(); x++ {
			w := want.GrayAt(wb.Min.X+x, wb.Min.Y+y).Y
			g := got.GrayAt(gb.Min.X+x, gb.Min.Y+y).Y
			if w == g {
				continue
			}
			out = append(out, Mismatch{X: x, Y: y, Want: w, Got: g})
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// PSNR returns the peak signal-to-noise ratio in dB between two images of
// equal size. Identical images yield +Inf.
func PSNR(a, b *image.Gray) (float64, error) {
	pa, pb := Pixels(a), Pixels(b)
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return 0, fmt.Errorf("image dimensions must match: %dx%d vs %dx%d", ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}
	if len(pa) == 0 {
		return 0, fmt.Errorf("empty image")
	}

	var sse float64
	for i := range pa {
		d := float64(pa[i]) - float64(pb[i])
		sse += d * d
	}
	if sse == 0 {
		return math.Inf(1), nil
	}
	mse := sse / float64(len(pa))
	return 10 * math.Log10(255*255/mse), nil
}
