package listing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(items []Listing) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestStoreAppendKeepsLocalSavedFlag(t *testing.T) {
	s := NewStore()
	s.Replace([]Listing{{ID: "A"}, {ID: "B", IsSaved: true}})

	prev, ok := s.SetSaved("A", true)
	require.True(t, ok)
	assert.False(t, prev)

	s.Append([]Listing{{ID: "A", Title: "refreshed", IsSaved: false}, {ID: "C"}})

	a, ok := s.Get("A")
	require.True(t, ok)
	assert.True(t, a.IsSaved)
	assert.Equal(t, "refreshed", a.Title)

	b, _ := s.Get("B")
	assert.True(t, b.IsSaved)

	if diff := cmp.Diff([]string{"A", "B", "C"}, ids(s.All())); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreNoDuplicatesOnOverlappingPages(t *testing.T) {
	s := NewStore()
	s.Replace([]Listing{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	s.Append([]Listing{{ID: "3"}, {ID: "4"}, {ID: "4"}})
	s.Append([]Listing{{ID: "1"}, {ID: "5"}})

	got := ids(s.All())
	seen := map[string]bool{}
	for _, id := range got {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, got)
	assert.Equal(t, 5, s.Len())
}

func TestStoreReplaceDropsMissingAndCarriesSaved(t *testing.T) {
	s := NewStore()
	s.Replace([]Listing{{ID: "A"}, {ID: "B"}})
	s.SetSaved("B", true)

	s.Replace([]Listing{{ID: "B"}, {ID: "D", IsSaved: true}})

	_, ok := s.Get("A")
	assert.False(t, ok)

	b, _ := s.Get("B")
	assert.True(t, b.IsSaved)

	d, _ := s.Get("D")
	assert.True(t, d.IsSaved)
	assert.Equal(t, []string{"B", "D"}, ids(s.All()))
}

func TestStoreSliceAndClear(t *testing.T) {
	s := NewStore()
	s.Replace([]Listing{{ID: "A"}, {ID: "B"}, {ID: "C"}})

	assert.Equal(t, []string{"A", "B"}, ids(s.Slice(2)))
	assert.Len(t, s.Slice(10), 3)

	_, ok := s.SetSaved("missing", true)
	assert.False(t, ok)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.All())
}
