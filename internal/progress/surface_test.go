package progress_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/scriptassoc/internal/progress"
	"github.com/vk/scriptassoc/internal/testutil"
)

func closed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestConsole(t *testing.T) {
	// --- Arrange ---
	var out testutil.SafeBuffer
	c := progress.NewConsole(&out)

	// --- Act ---
	c.ReportProgress("Loading report", 0.25)
	c.ReportProgress("Done", 1.5)

	// --- Assert ---
	assert.Equal(t, "[ 25%] Loading report\n[100%] Done\n", out.String())
	assert.False(t, closed(c.OnCancelRequested()))
	c.Halt()
	c.Halt()
	assert.True(t, closed(c.OnCancelRequested()))
}

func TestConsole_WatchInterruptStop(t *testing.T) {
	c := progress.NewConsole(&testutil.SafeBuffer{})
	stop := c.WatchInterrupt()
	stop()
	stop()
	assert.False(t, closed(c.OnCancelRequested()))
}

func TestMulti(t *testing.T) {
	// --- Arrange ---
	first := testutil.NewRecordingSurface()
	second := testutil.NewRecordingSurface()
	m := progress.NewMulti(first, progress.Nop{}, second)
	defer m.Close()

	// --- Act ---
	m.ReportProgress("step", 0.5)
	second.Halt()

	// --- Assert ---
	assert.Equal(t, []testutil.ProgressUpdate{{Label: "step", Fraction: 0.5}}, first.Updates())
	assert.Equal(t, first.Updates(), second.Updates())
	select {
	case <-m.OnCancelRequested():
	case <-time.After(2 * time.Second):
		t.Fatal("combined surface did not fire after a member halted")
	}
}

func TestNop(t *testing.T) {
	var s progress.Surface = progress.Nop{}
	s.ReportProgress("ignored", 1)
	assert.Nil(t, s.OnCancelRequested())
}

func TestDialRemote_Errors(t *testing.T) {
	testCases := []struct {
		name string
		url  string
	}{
		{"no scheme", "localhost:1"},
		{"bad url", "http://[::1"},
		{"unreachable", "http://127.0.0.1:1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := progress.DialRemote(context.Background(), tc.url, 2*time.Second)
			require.Error(t, err)
		})
	}
}
