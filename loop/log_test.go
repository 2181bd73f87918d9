package loop

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Not parallel: the engine logger is package state.
func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	f := newTestFactory(8, 10)
	f.fail = map[int]bool{1: true}
	p, err := New(countSource(3), f, DefaultConfig())
	assert.NoError(t, err)
	p.Layout(40, 50)

	assert.Contains(t, buf.String(), "skipping realization")
	assert.Contains(t, buf.String(), "index=1")

	SetLogger(nil)
	buf.Reset()
	Logger().Warn("dropped")
	assert.Empty(t, buf.String())
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}
