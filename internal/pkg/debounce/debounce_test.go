//go:build unit

package debounce_test

import (
	"sync/atomic"
	"testing"
	"time"

	"cedros-pay/internal/pkg/debounce"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForCount(t *testing.T, counter *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if counter.Load() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, want, counter.Load())
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	var commits atomic.Int32
	d := debounce.New(20*time.Millisecond, func() { commits.Add(1) })
	defer d.Stop()

	for range 10 {
		d.Trigger()
		time.Sleep(time.Millisecond)
	}

	waitForCount(t, &commits, 1)

	// A later trigger after the cooldown commits again.
	d.Trigger()
	waitForCount(t, &commits, 2)
}

func TestDebouncerFlush(t *testing.T) {
	var commits atomic.Int32
	d := debounce.New(time.Hour, func() { commits.Add(1) })
	defer d.Stop()

	d.Trigger()
	d.Flush()
	assert.Equal(t, int32(1), commits.Load())

	// Nothing pending: flush is a no-op.
	d.Flush()
	assert.Equal(t, int32(1), commits.Load())
}

func TestDebouncerStop(t *testing.T) {
	var commits atomic.Int32
	d := debounce.New(5*time.Millisecond, func() { commits.Add(1) })

	d.Trigger()
	d.Stop()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), commits.Load(), "stop cancels the pending commit")

	d.Trigger()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), commits.Load(), "triggers after stop are ignored")
}
