package engine

import "pixelstream/internal/stream"

// propagate builds the output sample for column col. Keep, strobe, user,
// id and dest are forwarded untouched; last is derived from the configured
// width and never taken from the input.
func propagate(in stream.TaggedSample, data stream.Sample, col, width int) stream.TaggedSample {
	return stream.TaggedSample{
		Data:   data,
		Keep:   in.Keep,
		Strobe: in.Strobe,
		User:   in.User,
		ID:     in.ID,
		Dest:   in.Dest,
		Last:   col == width-1,
	}
}
