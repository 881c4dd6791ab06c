package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginsInlineThenSpill(t *testing.T) {
	a := Loc{File: "a.rb", Begin: 1, End: 2}
	b := Loc{File: "a.rb", Begin: 3, End: 4}
	c := Loc{File: "b.rb", Begin: 5, End: 5}

	var o Origins
	assert.Equal(t, 0, o.Len())

	o.Add(a)
	o.Add(b)
	assert.Equal(t, 2, o.Len())
	assert.False(t, o.Spilled())

	o.Add(c)
	assert.Equal(t, 3, o.Len())
	assert.True(t, o.Spilled())
	assert.Equal(t, []Loc{a, b, c}, o.Slice())
	assert.Equal(t, c, o.At(2))
}

func TestOriginsMergeSkipsDuplicates(t *testing.T) {
	a := Loc{File: "a.rb", Begin: 1, End: 2}
	b := Loc{File: "a.rb", Begin: 3, End: 4}

	o := OriginsOf(a)
	o.Merge(OriginsOf(a, b))
	assert.Equal(t, []Loc{a, b}, o.Slice())
}

func TestLocString(t *testing.T) {
	testCases := []struct {
		loc      Loc
		expected string
	}{
		{NoLoc, "<no loc>"},
		{Loc{File: "x.rb", Begin: 4, End: 4}, "x.rb:4"},
		{Loc{File: "x.rb", Begin: 4, End: 9}, "x.rb:4-9"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.expected, func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.loc.String())
		})
	}
}

func TestLocJoin(t *testing.T) {
	a := Loc{File: "x.rb", Begin: 4, End: 6}
	b := Loc{File: "x.rb", Begin: 1, End: 5}
	assert.Equal(t, Loc{File: "x.rb", Begin: 1, End: 6}, a.Join(b))
	assert.Equal(t, a, NoLoc.Join(a))
}
