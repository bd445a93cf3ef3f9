package render

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameRecorder struct {
	frames []string
}

func (r *frameRecorder) SetContent(html string) {
	r.frames = append(r.frames, html)
}

func TestTyperPlay(t *testing.T) {
	rec := &frameRecorder{}
	typer := Typer{Delay: time.Microsecond}

	text := "**Hi** there"
	err := typer.Play(context.Background(), text, rec)
	require.NoError(t, err)

	full := Render(text)
	plain := []rune(ExtractText(full))

	// One frame per typed character plus the final full rendering.
	require.Len(t, rec.frames, len(plain)+1)
	assert.Equal(t, full, rec.frames[len(rec.frames)-1])

	// Every frame is a complete re-rendering of a prefix.
	for i := 0; i < len(plain); i++ {
		assert.Equal(t, Render(string(plain[:i+1])), rec.frames[i])
	}
}

func TestTyperPlayFinalFrameMatchesFullRender(t *testing.T) {
	rec := &frameRecorder{}
	typer := Typer{Delay: time.Microsecond}

	// The last prefix before completion ends mid-list, so the final frame
	// must be replaced by the full rendering, not left as-is.
	text := "1. one\n2. two"
	err := typer.Play(context.Background(), text, rec)
	require.NoError(t, err)
	assert.Equal(t, Render(text), rec.frames[len(rec.frames)-1])
}

func TestTyperPlayCancelled(t *testing.T) {
	rec := &frameRecorder{}
	typer := Typer{Delay: time.Hour} // never ticks

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text := "a long reply that will not be typed"
	err := typer.Play(ctx, text, rec)
	require.ErrorIs(t, err, context.Canceled)

	// Cancellation skips straight to the complete rendering.
	require.NotEmpty(t, rec.frames)
	assert.Equal(t, Render(text), rec.frames[len(rec.frames)-1])
}

func TestTyperPlayEmptyText(t *testing.T) {
	rec := &frameRecorder{}
	typer := Typer{Delay: time.Microsecond}

	err := typer.Play(context.Background(), "", rec)
	require.NoError(t, err)
	require.Len(t, rec.frames, 1)
	assert.Equal(t, Render(""), rec.frames[0])
}
