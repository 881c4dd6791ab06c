package typerr

import (
	"log/slog"
	"testing"

	"github.com/cottand/gradual/source"
	"github.com/stretchr/testify/assert"
)

func TestFormatWithCode(t *testing.T) {
	testCases := []struct {
		err      Error
		expected string
	}{
		{
			New(NewUnknownMethod{Method: "upcase", Receiver: "Integer"}),
			"(E001) method `upcase` does not exist on `Integer`",
		},
		{
			New(NewUnionMissingMethod{Method: "upcase", Branch: "Integer", Receiver: "T.any(Integer, String)"}),
			"(E002) method `upcase` does not exist on `Integer` component of `T.any(Integer, String)`",
		},
		{
			New(NewArgumentCount{Method: "+", Expected: "1", Got: 2}),
			"(E004) wrong number of arguments for `+`: expected 1, got 2",
		},
		{
			New(NewNoMethodsOnTop{Method: "foo"}),
			"(E009) cannot call `foo` on a value of type `T.anything`",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.expected, func(t *testing.T) {
			assert.Equal(t, testCase.expected, FormatWithCode(testCase.err))
		})
	}
}

func TestNewCapturesStack(t *testing.T) {
	err := New(NewMagicMisuse{Method: "<nope>"})
	assert.NotEmpty(t, err.getStack())
	assert.Equal(t, MagicMisuse, err.Code())
}

func TestErrorsNilSafe(t *testing.T) {
	var errs *Errors
	assert.False(t, errs.HasError())
	assert.Equal(t, 0, errs.Len())
	assert.Nil(t, errs.Errors())

	errs = errs.With(New(NewMagicMisuse{Method: "<a>"}))
	assert.True(t, errs.HasError())
	assert.True(t, errs.HasCode(MagicMisuse))
	assert.False(t, errs.HasCode(BoundsMismatch))
}

func TestErrorsMerge(t *testing.T) {
	loc := source.Loc{File: "a.rb", Begin: 1, End: 3}
	first := (*Errors)(nil).With(New(NewUnknownMethod{At: loc, Method: "a", Receiver: "X"}))
	second := (*Errors)(nil).With(New(NewUnknownMethod{At: loc, Method: "b", Receiver: "X"}))

	assert.Same(t, first, first.Merge(nil))
	assert.Same(t, second, (*Errors)(nil).Merge(second))

	merged := first.Merge(second)
	assert.Equal(t, 2, merged.Len())
	assert.Equal(t, loc, merged.Errors()[1].Loc())

	group := merged.LogValue()
	assert.Equal(t, slog.KindGroup, group.Kind())
	assert.Len(t, group.Group(), 2)
}
