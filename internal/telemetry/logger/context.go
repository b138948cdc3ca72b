package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	sessionIDKey contextKey = "replfront.session_id"
	connIDKey    contextKey = "replfront.conn_id"
)

// WithSessionID adds a REPL session id to the context.
func WithSessionID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// WithConnID adds a socket connection correlation id to the context.
func WithConnID(ctx context.Context, connID string) context.Context {
	return context.WithValue(ctx, connIDKey, connID)
}

func sessionIDFrom(ctx context.Context) (uint64, bool) {
	id, ok := ctx.Value(sessionIDKey).(uint64)
	return id, ok
}

func connIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(connIDKey).(string)
	return id
}

// contextHandler appends session_id and conn_id from the record's context.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := sessionIDFrom(ctx); ok {
		r.AddAttrs(slog.Uint64("session_id", id))
	}
	if id := connIDFrom(ctx); id != "" {
		r.AddAttrs(slog.String("conn_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
