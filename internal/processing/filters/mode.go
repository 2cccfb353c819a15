package filters

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterMode selects the operation applied to each sample. The numeric
// values are the control register encoding.
type FilterMode uint8

const (
	ModeBypass FilterMode = iota
	ModeGrayscale
	ModeSobel
	ModeThreshold
	ModeGaussian
	ModeNegative
	ModeSharpen
)

var modeNames = [...]string{
	ModeBypass:    "bypass",
	ModeGrayscale: "grayscale",
	ModeSobel:     "sobel",
	ModeThreshold: "threshold",
	ModeGaussian:  "gaussian",
	ModeNegative:  "negative",
	ModeSharpen:   "sharpen",
}

var modeDescriptions = [...]string{
	ModeBypass:    "pass-through, no processing",
	ModeGrayscale: "pass-through for single-channel input",
	ModeSobel:     "Sobel edge magnitude |gx|+|gy|, black border",
	ModeThreshold: "binary threshold, 255 when above the threshold",
	ModeGaussian:  "3x3 Gaussian blur, raw border",
	ModeNegative:  "inversion, 255 minus the sample",
	ModeSharpen:   "3x3 sharpening, raw border",
}

// Modes lists every defined mode in register order.
func Modes() []FilterMode {
	modes := make([]FilterMode, len(modeNames))
	for i := range modeNames {
		modes[i] = FilterMode(i)
	}
	return modes
}

func (m FilterMode) Valid() bool {
	return int(m) < len(modeNames)
}

// IsStencil reports whether the mode reads the full 3x3 window.
func (m FilterMode) IsStencil() bool {
	return m == ModeSobel || m == ModeGaussian || m == ModeSharpen
}

func (m FilterMode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

func (m FilterMode) Description() string {
	if m.Valid() {
		return modeDescriptions[m]
	}
	return "unknown, falls back to pass-through"
}

func (m FilterMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *FilterMode) UnmarshalText(text []byte) error {
	parsed, err := ParseFilterMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseFilterMode accepts a mode name or its register value. Register
// values outside the defined range are accepted; they select pass-through.
func ParseFilterMode(s string) (FilterMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return FilterMode(i), nil
		}
	}
	v, err := strconv.ParseUint(name, 10, 8)
	if err != nil {
		return ModeBypass, fmt.Errorf("unknown filter mode: %q", s)
	}
	return FilterMode(v), nil
}
