package engine

import (
	"fmt"

	"pixelstream/internal/processing/filters"
	"pixelstream/internal/stream"
)

const (
	// DefaultMaxWidth and DefaultMaxHeight size the line buffers of the
	// reference hardware build.
	DefaultMaxWidth  = 640
	DefaultMaxHeight = 480

	// RegisterLimit is the largest dimension the 16-bit size registers hold.
	RegisterLimit = 1<<16 - 1
)

// Config is the per-frame parameter set. It is latched when a frame starts
// and read-only while the frame runs.
type Config struct {
	Filter    filters.FilterMode
	Threshold stream.Sample
	Width     int
	Height    int
}

// Samples is the number of samples in one frame.
func (c Config) Samples() int {
	return c.Width * c.Height
}

func (c Config) String() string {
	return fmt.Sprintf("filter=%s threshold=%d size=%dx%d", c.Filter, c.Threshold, c.Width, c.Height)
}

// Limits bounds the frame dimensions an engine accepts.
type Limits struct {
	MaxWidth  int
	MaxHeight int
}

func DefaultLimits() Limits {
	return Limits{MaxWidth: DefaultMaxWidth, MaxHeight: DefaultMaxHeight}
}

func (l Limits) validate() error {
	if l.MaxWidth < 1 || l.MaxWidth > RegisterLimit {
		return &ConfigError{Field: "max_width", Value: l.MaxWidth, Reason: fmt.Sprintf("must be in [1, %d]", RegisterLimit)}
	}
	if l.MaxHeight < 1 || l.MaxHeight > RegisterLimit {
		return &ConfigError{Field: "max_height", Value: l.MaxHeight, Reason: fmt.Sprintf("must be in [1, %d]", RegisterLimit)}
	}
	return nil
}

// Validate checks c against l. Unknown filter modes are accepted.
func (l Limits) Validate(c Config) error {
	if c.Width < 1 || c.Width > l.MaxWidth {
		return &ConfigError{Field: "width", Value: c.Width, Reason: fmt.Sprintf("must be in [1, %d]", l.MaxWidth)}
	}
	if c.Height < 1 || c.Height > l.MaxHeight {
		return &ConfigError{Field: "height", Value: c.Height, Reason: fmt.Sprintf("must be in [1, %d]", l.MaxHeight)}
	}
	return nil
}
