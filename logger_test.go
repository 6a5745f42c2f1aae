package motionblur

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_DefaultSilent(t *testing.T) {
	l := Logger()
	require.NotNil(t, l)

	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		assert.False(t, l.Enabled(context.Background(), level),
			"default logger should be disabled at %v", level)
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	SetLogger(custom)

	assert.Same(t, custom, Logger())

	Logger().Info("pass dispatched", "stage", "tileMax4")
	assert.True(t, strings.Contains(buf.String(), "pass dispatched"))
}

func TestSetLogger_NilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	assert.False(t, Logger().Enabled(context.Background(), slog.LevelInfo))
}

func TestFilterLogsLifecycle(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	f, err := NewReconstructionFilter(DefaultProgram())
	require.NoError(t, err)

	src := gradientPixmap(16, 16)
	dst := NewPixmap(16, 16)
	motion := NewMotionField(16, 16)
	require.NoError(t, f.ProcessImage(360, 8, src, motion, dst))
	require.NoError(t, f.Release())

	out := buf.String()
	assert.Contains(t, out, "filter created")
	assert.Contains(t, out, "maxBlurPixels")
	assert.Contains(t, out, "filter released")
	assert.Contains(t, out, f.id)
}
