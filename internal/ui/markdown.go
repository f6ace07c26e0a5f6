package ui

import (
	"os"

	"charm.land/glamour/v2"
	"golang.org/x/term"
)

// RenderMarkdown renders markdown using glamour with the terminal's
// detected style. Returns the original text when styling is off or
// rendering fails, so callers never lose content.
func RenderMarkdown(markdown string) string {
	if !ShouldUseColor() {
		return markdown
	}

	// Cap wrap width for readability on very wide terminals.
	const maxReadableWidth = 100
	wrapWidth := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		wrapWidth = w
	}
	if wrapWidth > maxReadableWidth {
		wrapWidth = maxReadableWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return markdown
	}

	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}
