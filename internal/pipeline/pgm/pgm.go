// Package pgm reads and writes 8-bit Portable GrayMap images in both the
// plain (P2) and raw (P5) encodings. Importing it registers the format with
// the image package.
package pgm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

const maxValue = 255

// Header bounds. Larger images are rejected before any pixel memory is
// allocated.
const (
	MaxDimension = 1<<16 - 1
	MaxPixels    = 1 << 28
)

var ErrFormat = errors.New("pgm: invalid format")

// Encoding selects the PGM variant written by Encode.
type Encoding int

const (
	// Plain writes ASCII samples (P2), one image row per line.
	Plain Encoding = iota
	// Raw writes binary samples (P5).
	Raw
)

func init() {
	image.RegisterFormat("pgm", "P2", Decode, DecodeConfig)
	image.RegisterFormat("pgm", "P5", Decode, DecodeConfig)
}

type header struct {
	raw    bool
	width  int
	height int
	maxval int
}

func readHeader(r *bufio.Reader) (header, error) {
	var h header

	magic, err := readToken(r)
	if err != nil {
		return h, err
	}
	switch magic {
	case "P2":
	case "P5":
		h.raw = true
	default:
		return h, fmt.Errorf("%w: magic %q", ErrFormat, magic)
	}

	fields := [3]*int{&h.width, &h.height, &h.maxval}
	for i, f := range fields {
		tok, err := readToken(r)
		if err != nil {
			return h, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v <= 0 {
			return h, fmt.Errorf("%w: header field %d is %q", ErrFormat, i, tok)
		}
		*f = v
	}
	if h.width > MaxDimension || h.height > MaxDimension || h.width*h.height > MaxPixels {
		return h, fmt.Errorf("%w: %dx%d exceeds the %d pixel limit", ErrFormat, h.width, h.height, MaxPixels)
	}
	if h.maxval > maxValue {
		return h, fmt.Errorf("%w: maxval %d, only 8-bit images are supported", ErrFormat, h.maxval)
	}
	return h, nil
}

// readToken returns the next whitespace-delimited token, skipping '#'
// comments. For raw images exactly one whitespace byte after the maxval is
// consumed, as the format requires.
func readToken(r *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		switch {
		case b == '#' && len(tok) == 0:
			if _, err := r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
		case isSpace(b):
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(bufio.NewReader(r))
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.GrayModel, Width: h.width, Height: h.height}, nil
}

// Decode reads a PGM image. Samples are rescaled to 0..255 when maxval is
// below 255.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	img := image.NewGray(image.Rect(0, 0, h.width, h.height))
	if h.raw {
		if _, err := io.ReadFull(br, img.Pix); err != nil {
			return nil, fmt.Errorf("%w: pixel data: %v", ErrFormat, err)
		}
		for i, v := range img.Pix {
			if int(v) > h.maxval {
				return nil, fmt.Errorf("%w: sample %d exceeds maxval %d", ErrFormat, v, h.maxval)
			}
			img.Pix[i] = scale(int(v), h.maxval)
		}
		return img, nil
	}

	for i := range img.Pix {
		tok, err := readToken(br)
		if err != nil {
			return nil, fmt.Errorf("%w: sample %d: %v", ErrFormat, i, err)
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v < 0 || v > h.maxval {
			return nil, fmt.Errorf("%w: sample %d is %q", ErrFormat, i, tok)
		}
		img.Pix[i] = scale(v, h.maxval)
	}
	return img, nil
}

func scale(v, maxval int) uint8 {
	if maxval == maxValue {
		return uint8(v)
	}
	return uint8((v*maxValue + maxval/2) / maxval)
}

// Encode writes img as an 8-bit PGM.
func Encode(w io.Writer, img *image.Gray, enc Encoding) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)

	magic := "P2"
	if enc == Raw {
		magic = "P5"
	}
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n%d\n", magic, b.Dx(), b.Dy(), maxValue); err != nil {
		return err
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()]
		if enc == Raw {
			if _, err := bw.Write(row); err != nil {
				return err
			}
			continue
		}
		for x, v := range row {
			if x > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.Itoa(int(v))); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
