package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewSlog(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Debug("debug message", "iter", 3)
	logger.Info("info message", "algo", "hs")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	require.Contains(t, out, "level=DEBUG")
	require.Contains(t, out, "iter=3")
	require.Contains(t, out, "algo=hs")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "level=ERROR")
}

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger, err := New("info", "json", buf)
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("visible", "score", 1.5)

		require.NotContains(t, buf.String(), "hidden")
		require.Contains(t, buf.String(), `"msg":"visible"`)
		require.Contains(t, buf.String(), `"score":1.5`)
	})

	t.Run("with fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger, err := New("debug", "text", buf)
		require.NoError(t, err)

		logger.With("run_id", "abc").Info("started")
		require.Contains(t, buf.String(), "run_id=abc")
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		_, err := New("verbose", "text", &bytes.Buffer{})
		require.Error(t, err)
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		_, err := New("info", "xml", &bytes.Buffer{})
		require.Error(t, err)
	})
}

func TestNopLogger(t *testing.T) {
	var l Logger = NewNop()
	require.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x", "k", "v")
		l.Warn("x")
		l.Error("x")
		l.With("k", "v").Info("x")
	})
	require.Same(t, l, l.With("k", "v"))
}

func TestSlogLogger_WithChains(t *testing.T) {
	buf := &bytes.Buffer{}
	var l Logger = NewSlog(slog.New(slog.NewTextHandler(buf, nil)))

	l.With("algo", "hs").With("seed", 7).Info("done")
	l.Info("plain")

	out := buf.String()
	require.Contains(t, out, "algo=hs seed=7")
	require.NotContains(t, out, "msg=plain algo=hs")
}
