package psdsheet

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { SetLogger(nil) })

	doc := newDoc(2, 2,
		fakeLayer{name: "A", img: solid(2, 2, red)},
		fakeLayer{name: "hidden", hidden: true, img: solid(2, 2, red)},
	)
	_, err := NewSheetBuilder(doc).Build(DefaultOptions())
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "skip hidden layer")
	assert.Contains(t, buf.String(), "built sheet")
}
