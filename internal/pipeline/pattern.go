package pipeline

import "image"

// TestPattern draws the reference bench image: a diagonal 0..63 gradient
// background, a grey (128) band and a white (200) square. On a 64x64 frame
// the band spans 16..47 and the square 20..43; other sizes scale the
// boundaries proportionally.
func TestPattern(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))

	sx := func(v int) int { return v * width / 64 }
	sy := func(v int) int { return v * height / 64 }

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var v uint8
			switch {
			case x >= sx(20) && x < sx(44) && y >= sy(20) && y < sy(44):
				v = 200
			case x >= sx(16) && x < sx(48) && y >= sy(16) && y < sy(48):
				v = 128
			default:
				v = uint8((x + y) % 64)
			}
			img.Pix[y*img.Stride+x] = v
		}
	}
	return img
}
