package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/alvinow/folio/internal/store"
)

// bookmarkPicker is the "go to bookmark" overlay: type to filter, fuzzy
// ranked so near-misses still surface.
type bookmarkPicker struct {
	all    []store.Bookmark
	query  string
	cursor int
}

func newBookmarkPicker(items []store.Bookmark) *bookmarkPicker {
	return &bookmarkPicker{all: items}
}

// filtered returns bookmarks matching the query, best match first. An empty
// query returns everything in stored order. Substring hits rank above pure
// edit-distance matches; among distance matches, closer labels win.
func (p *bookmarkPicker) filtered() []store.Bookmark {
	query := strings.ToLower(strings.TrimSpace(p.query))
	if query == "" {
		return p.all
	}

	type scored struct {
		bm   store.Bookmark
		rank int
	}
	var matches []scored
	for _, bm := range p.all {
		label := strings.ToLower(bm.Label)
		href := strings.ToLower(bm.Href)
		switch {
		case strings.Contains(label, query) || strings.Contains(href, query):
			matches = append(matches, scored{bm: bm, rank: 0})
		default:
			d := levenshtein.ComputeDistance(query, label)
			// Tolerate roughly one typo per three query characters.
			if d <= len(query)/3+1 {
				matches = append(matches, scored{bm: bm, rank: d})
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })

	out := make([]store.Bookmark, len(matches))
	for i, m := range matches {
		out[i] = m.bm
	}
	return out
}

// selected returns the bookmark under the cursor, if any.
func (p *bookmarkPicker) selected() (store.Bookmark, bool) {
	items := p.filtered()
	if len(items) == 0 || p.cursor >= len(items) {
		return store.Bookmark{}, false
	}
	return items[p.cursor], true
}

// moveCursor clamps cursor movement to the filtered list.
func (p *bookmarkPicker) moveCursor(delta int) {
	n := len(p.filtered())
	if n == 0 {
		p.cursor = 0
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= n {
		p.cursor = n - 1
	}
}

// typeRune appends printable input to the query and resets the cursor.
func (p *bookmarkPicker) typeRune(s string) {
	p.query += s
	p.cursor = 0
}

// backspace removes the last query byte.
func (p *bookmarkPicker) backspace() {
	if p.query != "" {
		p.query = p.query[:len(p.query)-1]
		p.cursor = 0
	}
}
