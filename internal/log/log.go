package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-set/v3"
)

// Known sections. Records below Warn are only emitted if their "section"
// attribute has one of the enabled sections as a prefix.
const (
	SectionLattice   = "lattice"
	SectionDispatch  = "dispatch"
	SectionInference = "inference"
	SectionSymtab    = "symtab"
	SectionCLI       = "cli"
)

var (
	sectionsMu      sync.RWMutex
	enabledSections = set.From([]string{SectionCLI})
)

var level = new(slog.LevelVar)

func init() {
	level.Set(slog.LevelWarn)
}

// SetLevel changes the minimum level of every logger created by this package
func SetLevel(l slog.Level) { level.Set(l) }

// ParseLevel accepts debug, info, warn and error, case-insensitively
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.ToUpper(s)))
	return l, err
}

// EnableSections replaces the set of enabled sections. "all" enables every known section.
func EnableSections(sections ...string) {
	sectionsMu.Lock()
	defer sectionsMu.Unlock()
	enabledSections = set.New[string](len(sections))
	for _, s := range sections {
		if s == "all" {
			enabledSections.InsertSlice([]string{SectionLattice, SectionDispatch, SectionInference, SectionSymtab, SectionCLI})
			continue
		}
		enabledSections.Insert(s)
	}
}

func sectionEnabled(section string) bool {
	sectionsMu.RLock()
	defer sectionsMu.RUnlock()
	for s := range enabledSections.Items() {
		if strings.HasPrefix(section, s) {
			return true
		}
	}
	return false
}

var LoggerOpts = &slog.HandlerOptions{
	AddSource: false,
	Level:     level,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == "time" {
			return slog.Attr{}
		}
		return a
	},
}

// New returns a logger writing text records to w, filtered by section
func New(w io.Writer) *slog.Logger {
	return slog.New(&filteringHandler{underlying: slog.NewTextHandler(w, LoggerOpts)})
}

var DefaultLogger = New(os.Stderr)

var _ slog.Handler = &filteringHandler{}

type filteringHandler struct {
	underlying slog.Handler
	// sections bound through WithAttrs
	sections []string
}

func (f filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return f.underlying.Enabled(ctx, level)
}

func (f filteringHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelWarn {
		return f.underlying.Handle(ctx, record)
	}
	wantSection := false
	for _, s := range f.sections {
		wantSection = wantSection || sectionEnabled(s)
	}
	record.Attrs(func(attr slog.Attr) bool {
		wantSection = wantSection || attr.Key == "section" && sectionEnabled(attr.Value.String())
		// iterate as long as we have not found our section
		return !wantSection
	})
	if !wantSection {
		return nil
	}
	return f.underlying.Handle(ctx, record)
}

func (f filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var newAttrs []slog.Attr
	sections := append([]string(nil), f.sections...)

	// keep the section attribute in filteringHandler
	for _, attr := range attrs {
		if attr.Key == "section" {
			sections = append(sections, attr.Value.String())
		}
		newAttrs = append(newAttrs, attr)
	}
	return &filteringHandler{
		underlying: f.underlying.WithAttrs(newAttrs),
		sections:   sections,
	}
}

func (f filteringHandler) WithGroup(name string) slog.Handler {
	return &filteringHandler{
		underlying: f.underlying.WithGroup(name),
		sections:   f.sections,
	}
}
