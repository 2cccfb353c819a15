// Package stream defines the sample types exchanged with the filter engine
// and the blocking source/sink contracts that carry them.
package stream

import (
	"context"
	"errors"
	"io"
)

// Sample is a single 8-bit intensity value.
type Sample = uint8

// MaxSideband is the largest value the 1-bit user, id and dest channels can
// carry.
const MaxSideband = 1

// TaggedSample is a Sample with its stream side channel.
type TaggedSample struct {
	Data   Sample
	Keep   bool
	Strobe bool
	// User marks start-of-frame on the first sample of a frame.
	User uint8
	ID   uint8
	Dest uint8
	// Last marks the final sample of a row.
	Last bool
}

// Validate reports whether the side channel is well formed.
func (t TaggedSample) Validate() error {
	switch {
	case t.User > MaxSideband:
		return errors.New("user channel exceeds 1 bit")
	case t.ID > MaxSideband:
		return errors.New("id channel exceeds 1 bit")
	case t.Dest > MaxSideband:
		return errors.New("dest channel exceeds 1 bit")
	case t.Strobe && !t.Keep:
		return errors.New("strobe asserted on a null byte")
	}
	return nil
}

// Source yields samples in raster order. Read blocks until a sample is
// available; it returns io.EOF once the stream has ended.
type Source interface {
	Read(ctx context.Context) (TaggedSample, error)
}

// Sink accepts samples in raster order. Write blocks while the consumer is
// not ready.
type Sink interface {
	Write(ctx context.Context, s TaggedSample) error
}

// IsEOF reports whether err marks the end of a Source.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
