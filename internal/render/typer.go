package render

import (
	"context"
	"time"
)

// DefaultCharDelay is the per-character playback delay.
const DefaultCharDelay = 15 * time.Millisecond

// Sink receives playback frames. Each frame is complete, well-formed HTML
// replacing the previous one, never an HTML fragment cut mid-tag.
type Sink interface {
	SetContent(html string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(html string)

func (f SinkFunc) SetContent(html string) { f(html) }

// Typer plays a reply back character by character. The full rendering is
// computed once up front; every frame re-runs Render over the growing
// plain-text prefix so partial output is always well-formed, and the final
// frame is the exact full rendering (an unclosed marker in a prefix can
// render differently from the finished text).
type Typer struct {
	Delay time.Duration // per character; 0 means DefaultCharDelay
}

// Play animates markdown-subset text into the sink. It blocks until the
// animation finishes or ctx is cancelled; on cancellation the sink is left
// showing the complete rendering rather than a truncated reply.
func (t *Typer) Play(ctx context.Context, text string, sink Sink) error {
	delay := t.Delay
	if delay <= 0 {
		delay = DefaultCharDelay
	}

	full := Render(text)
	plain := []rune(ExtractText(full))

	ticker := time.NewTicker(delay)
	defer ticker.Stop()

	for i := 1; i <= len(plain); i++ {
		select {
		case <-ctx.Done():
			sink.SetContent(full)
			return ctx.Err()
		case <-ticker.C:
		}
		sink.SetContent(Render(string(plain[:i])))
	}

	sink.SetContent(full)
	return nil
}
