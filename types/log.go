package types

import (
	"context"
	"log/slog"
)

// LogValue wraps t so that it is only rendered if the record is actually emitted
func LogValue(ctx Context, t Type) slog.LogValuer {
	return typeLogValuer{symbols: ctx.Symbols(), t: t}
}

type typeLogValuer struct {
	symbols SymbolTable
	t       Type
}

func (l typeLogValuer) LogValue() slog.Value {
	if l.t == nil {
		return slog.StringValue("<nil>")
	}
	if l.symbols == nil {
		return slog.StringValue(l.t.String())
	}
	return slog.StringValue(show(l.symbols, l.t))
}

// typeLogHandler renders any Type attribute with Show, lazily
func typeLogHandler(symbols SymbolTable, underlying slog.Handler) slog.Handler {
	return &typeHandler{symbols: symbols, underlying: underlying}
}

type typeHandler struct {
	symbols    SymbolTable
	underlying slog.Handler
}

func (l *typeHandler) wrap(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() != slog.KindAny {
		return attr
	}
	if t, ok := attr.Value.Any().(Type); ok {
		attr.Value = slog.AnyValue(typeLogValuer{symbols: l.symbols, t: t})
	}
	return attr
}

func (l *typeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return l.underlying.Enabled(ctx, level)
}

func (l *typeHandler) Handle(ctx context.Context, record slog.Record) error {
	newRecord := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		newRecord.AddAttrs(l.wrap(attr))
		return true
	})
	return l.underlying.Handle(ctx, newRecord)
}

func (l *typeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	wrapped := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		wrapped[i] = l.wrap(attr)
	}
	return typeLogHandler(l.symbols, l.underlying.WithAttrs(wrapped))
}

func (l *typeHandler) WithGroup(name string) slog.Handler {
	return typeLogHandler(l.symbols, l.underlying.WithGroup(name))
}
