package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionFiltering(t *testing.T) {
	SetLevel(slog.LevelDebug)
	EnableSections(SectionLattice)
	t.Cleanup(func() {
		SetLevel(slog.LevelWarn)
		EnableSections(SectionCLI)
	})

	buf := &bytes.Buffer{}
	logger := New(buf)

	logger.Debug("kept", "section", "lattice.lub")
	logger.Debug("dropped", "section", SectionDispatch)
	logger.Debug("no section")
	logger.Warn("warnings always pass", "section", SectionDispatch)

	out := buf.String()
	assert.Contains(t, out, "kept")
	assert.NotContains(t, out, "dropped")
	assert.NotContains(t, out, "no section")
	assert.Contains(t, out, "warnings always pass")
	assert.NotContains(t, out, "time=")
}

func TestSectionBoundWithAttrs(t *testing.T) {
	SetLevel(slog.LevelDebug)
	EnableSections(SectionSymtab)
	t.Cleanup(func() {
		SetLevel(slog.LevelWarn)
		EnableSections(SectionCLI)
	})

	buf := &bytes.Buffer{}
	logger := New(buf).With("section", SectionSymtab)
	logger.Debug("declared class", "name", "Foo")
	assert.Contains(t, buf.String(), "declared class")
}

func TestLevelGate(t *testing.T) {
	EnableSections("all")
	SetLevel(slog.LevelWarn)
	t.Cleanup(func() { EnableSections(SectionCLI) })

	buf := &bytes.Buffer{}
	New(buf).Info("hidden", "section", SectionLattice)
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	assert.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
