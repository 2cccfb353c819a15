package stream

import (
	"context"
	"io"
)

// ChanSource reads from a channel. A closed channel ends the stream.
type ChanSource struct {
	ch <-chan TaggedSample
}

func NewChanSource(ch <-chan TaggedSample) *ChanSource {
	return &ChanSource{ch: ch}
}

func (c *ChanSource) Read(ctx context.Context) (TaggedSample, error) {
	select {
	case <-ctx.Done():
		return TaggedSample{}, ctx.Err()
	case s, ok := <-c.ch:
		if !ok {
			return TaggedSample{}, io.EOF
		}
		return s, nil
	}
}

// ChanSink writes to a channel. The channel's capacity is the only
// buffering between producer and consumer.
type ChanSink struct {
	ch chan<- TaggedSample
}

func NewChanSink(ch chan<- TaggedSample) *ChanSink {
	return &ChanSink{ch: ch}
}

func (c *ChanSink) Write(ctx context.Context, s TaggedSample) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case c.ch <- s:
		return nil
	}
}

// SliceSource replays a fixed slice of samples.
type SliceSource struct {
	samples []TaggedSample
	pos     int
}

func NewSliceSource(samples []TaggedSample) *SliceSource {
	return &SliceSource{samples: samples}
}

func (s *SliceSource) Read(ctx context.Context) (TaggedSample, error) {
	if err := ctx.Err(); err != nil {
		return TaggedSample{}, err
	}
	if s.pos >= len(s.samples) {
		return TaggedSample{}, io.EOF
	}
	t := s.samples[s.pos]
	s.pos++
	return t, nil
}

// Remaining returns the number of unread samples.
func (s *SliceSource) Remaining() int {
	return len(s.samples) - s.pos
}

// Collector is a Sink that keeps every sample it receives.
type Collector struct {
	samples []TaggedSample
}

func NewCollector(capacity int) *Collector {
	return &Collector{samples: make([]TaggedSample, 0, capacity)}
}

func (c *Collector) Write(ctx context.Context, s TaggedSample) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.samples = append(c.samples, s)
	return nil
}

func (c *Collector) Samples() []TaggedSample {
	return c.samples
}

// Data strips the side channel.
func (c *Collector) Data() []Sample {
	return Data(c.samples)
}

// Tag frames a raster of pixels the way a capture front end does: keep and
// strobe set, user set on the first sample, last set at each row end.
func Tag(pixels []Sample, width int) []TaggedSample {
	out := make([]TaggedSample, len(pixels))
	for i, p := range pixels {
		out[i] = TaggedSample{
			Data:   p,
			Keep:   true,
			Strobe: true,
			Last:   width > 0 && i%width == width-1,
		}
	}
	if len(out) > 0 {
		out[0].User = 1
	}
	return out
}

// Data returns the intensities of samples in order.
func Data(samples []TaggedSample) []Sample {
	out := make([]Sample, len(samples))
	for i, s := range samples {
		out[i] = s.Data
	}
	return out
}
