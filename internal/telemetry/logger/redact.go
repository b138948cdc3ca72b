package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Keys whose values carry user-entered source text.
var sourceKeys = map[string]bool{
	"source": true,
	"input":  true,
	"line":   true,
	"form":   true,
}

// maxSourcePreview is how many leading runes of source text survive redaction.
const maxSourcePreview = 16

// redactSource replaces source text with a short preview and its length.
func redactSource(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString && sourceKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, summarize(a.Value.String()))
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			redacted[i] = redactSource(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	return a
}

// summarize reduces source text to a single-line preview plus its byte length.
func summarize(src string) string {
	if src == "" {
		return src
	}
	preview := strings.Join(strings.Fields(src), " ")
	if runes := []rune(preview); len(runes) > maxSourcePreview {
		preview = string(runes[:maxSourcePreview]) + "..."
	}
	return fmt.Sprintf("%q (%d bytes)", preview, len(src))
}
