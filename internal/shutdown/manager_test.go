package shutdown

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelstream/internal/logger"
)

func TestShutdownReverseOrder(t *testing.T) {
	m := NewManager(nil)

	var mu sync.Mutex
	var order []string
	record := func(name string) Func {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}
	m.Register("first", record("first"))
	m.Register("second", record("second"))

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"second", "first"}, order)
	assert.Error(t, m.Context().Err())

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestShutdownTimeout(t *testing.T) {
	var buf bytes.Buffer
	m := NewManager(logger.NewZerolog(&buf, logger.DebugLevel))
	m.SetTimeout(10 * time.Millisecond)

	release := make(chan struct{})
	defer close(release)
	m.Register("stuck", Func(func() { <-release }))

	start := time.Now()
	m.Shutdown()

	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, buf.String(), "component shutdown timeout")
	assert.Contains(t, buf.String(), `"name":"stuck"`)
}

func TestListenStopsAfterShutdown(t *testing.T) {
	m := NewManager(nil)
	m.Listen()
	m.Listen()
	m.Shutdown()

	require.Eventually(t, func() bool {
		select {
		case <-m.Done():
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}
