package types

import (
	"context"
	"fmt"

	"github.com/cottand/gradual/source"
	"github.com/cottand/gradual/typerr"
)

// TypeAndOrigins is a type together with the locations that made a value have it
type TypeAndOrigins struct {
	Type    Type
	Origins source.Origins
}

func Typed(t Type, locs ...source.Loc) TypeAndOrigins {
	return TypeAndOrigins{Type: t, Origins: source.OriginsOf(locs...)}
}

// Loc is the first origin, or source.NoLoc
func (t TypeAndOrigins) Loc() source.Loc {
	if t.Origins.Len() == 0 {
		return source.NoLoc
	}
	return t.Origins.At(0)
}

// Explain produces one diagnostic line per origin, saying that the value was given its type there
func (t TypeAndOrigins) Explain(ctx Context, what string) []typerr.ErrorLine {
	shown := Show(ctx, t.Type)
	if t.Origins.Len() == 0 {
		return []typerr.ErrorLine{{Loc: source.NoLoc, Message: fmt.Sprintf("%s has type `%s`", what, shown)}}
	}
	lines := make([]typerr.ErrorLine, 0, t.Origins.Len())
	for loc := range t.Origins.All() {
		lines = append(lines, typerr.ErrorLine{Loc: loc, Message: fmt.Sprintf("%s got type `%s` here", what, shown)})
	}
	return lines
}

// Release records the size of the origin list. Call it once the value is no longer needed.
func (t TypeAndOrigins) Release(ctx Context) {
	ctx.options().Metrics.RecordOriginsSize(context.Background(), t.Origins.Len())
}
