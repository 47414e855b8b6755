package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alvinow/folio/internal/store"
)

func testBookmarks() []store.Bookmark {
	return []store.Bookmark{
		{Label: "Opening storm", Href: "chap1.xhtml", Progression: 0.1},
		{Label: "The harpooneer", Href: "chap2.xhtml", Progression: 0.35},
		{Label: "Whale sighted", Href: "chap3.xhtml", Progression: 0.6},
	}
}

func TestPickerEmptyQueryReturnsAll(t *testing.T) {
	p := newBookmarkPicker(testBookmarks())
	require.Len(t, p.filtered(), 3)
}

func TestPickerFiltering(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "substring on label", query: "whale", want: []string{"Whale sighted"}},
		{name: "substring on href", query: "chap2", want: []string{"The harpooneer"}},
		{name: "case insensitive", query: "STORM", want: []string{"Opening storm"}},
		{name: "no match", query: "zzzzzzzz", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newBookmarkPicker(testBookmarks())
			for _, r := range tt.query {
				p.typeRune(string(r))
			}
			got := p.filtered()
			require.Len(t, got, len(tt.want))
			for i, label := range tt.want {
				require.Equal(t, label, got[i].Label)
			}
		})
	}
}

func TestPickerSubstringRanksAboveFuzzy(t *testing.T) {
	p := newBookmarkPicker([]store.Bookmark{
		{Label: "whales", Href: "a.xhtml"}, // substring hit
		{Label: "whaze", Href: "b.xhtml"},  // one edit away, fuzzy only
	})
	p.query = "whale"
	got := p.filtered()
	require.Len(t, got, 2)
	require.Equal(t, "whales", got[0].Label)
	require.Equal(t, "whaze", got[1].Label)
}

func TestPickerCursorClampsAndResets(t *testing.T) {
	p := newBookmarkPicker(testBookmarks())
	p.moveCursor(10)
	require.Equal(t, 2, p.cursor)
	p.moveCursor(-10)
	require.Equal(t, 0, p.cursor)

	p.moveCursor(2)
	p.typeRune("w")
	require.Equal(t, 0, p.cursor, "typing resets the cursor")

	p.backspace()
	require.Equal(t, "", p.query)
}

func TestPickerSelected(t *testing.T) {
	p := newBookmarkPicker(testBookmarks())
	p.moveCursor(1)
	bm, ok := p.selected()
	require.True(t, ok)
	require.Equal(t, "The harpooneer", bm.Label)

	empty := newBookmarkPicker(nil)
	_, ok = empty.selected()
	require.False(t, ok)
}
