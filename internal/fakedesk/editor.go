package fakedesk

import (
	"strings"

	"github.com/cboone/glimpse/notepadpp"
)

// document is one editor tab.
type document struct {
	name   string
	text   []rune
	caret  int
	anchor int
	dirty  bool
}

func (doc *document) selection() (start, end int) {
	if doc.anchor < doc.caret {
		return doc.anchor, doc.caret
	}
	return doc.caret, doc.anchor
}

func (doc *document) selected() string {
	s, e := doc.selection()
	return string(doc.text[s:e])
}

func (doc *document) setCaret(i int) {
	doc.caret, doc.anchor = i, i
}

func (doc *document) selectAll() {
	doc.anchor, doc.caret = 0, len(doc.text)
}

// insert replaces the selection with rs.
func (doc *document) insert(rs []rune) {
	s, e := doc.selection()
	next := make([]rune, 0, len(doc.text)-(e-s)+len(rs))
	next = append(next, doc.text[:s]...)
	next = append(next, rs...)
	next = append(next, doc.text[e:]...)
	doc.text = next
	doc.setCaret(s + len(rs))
	doc.dirty = true
}

func (doc *document) lineBounds(i int) (start, end int) {
	start = i
	for start > 0 && doc.text[start-1] != '\n' {
		start--
	}
	end = i
	for end < len(doc.text) && doc.text[end] != '\n' {
		end++
	}
	return start, end
}

// newline breaks the line at the caret and auto-indents the new line.
func (doc *document) newline() {
	s, e := doc.lineBounds(doc.caret)
	indent := notepadpp.AutoIndent(string(doc.text[s:e]))
	doc.insert([]rune("\n" + indent))
}

func (doc *document) backspace() {
	if doc.anchor == doc.caret {
		if doc.caret == 0 {
			return
		}
		doc.anchor = doc.caret - 1
	}
	doc.insert(nil)
}

func (doc *document) deleteForward() {
	if doc.anchor == doc.caret {
		if doc.caret == len(doc.text) {
			return
		}
		doc.anchor = doc.caret + 1
	}
	doc.insert(nil)
}

func (doc *document) home() {
	s, _ := doc.lineBounds(doc.caret)
	doc.setCaret(s)
}

func (doc *document) end() {
	_, e := doc.lineBounds(doc.caret)
	doc.setCaret(e)
}

// copyText returns the selection with Windows line endings, as the
// editor puts it on the clipboard.
func (doc *document) copyText() string {
	return strings.ReplaceAll(doc.selected(), "\n", "\r\n")
}

// foldAt reports whether term occurs at i, ignoring case.
func (doc *document) foldAt(i int, term []rune) bool {
	if i+len(term) > len(doc.text) {
		return false
	}
	return strings.EqualFold(string(doc.text[i:i+len(term)]), string(term))
}

// findNext selects the next case-insensitive occurrence of term after the
// selection, wrapping around the end of the document.
func (doc *document) findNext(term string) bool {
	t := []rune(term)
	if len(t) == 0 || len(t) > len(doc.text) {
		return false
	}
	_, from := doc.selection()
	n := len(doc.text)
	for k := 0; k <= n; k++ {
		i := (from + k) % (n + 1)
		if doc.foldAt(i, t) {
			doc.anchor, doc.caret = i, i+len(t)
			return true
		}
	}
	return false
}

// replace substitutes the selection when it matches term, then moves on to
// the next occurrence. It reports whether text changed.
func (doc *document) replace(term, repl string) bool {
	changed := false
	if doc.anchor != doc.caret && strings.EqualFold(doc.selected(), term) {
		doc.insert([]rune(repl))
		changed = true
	}
	doc.findNext(term)
	return changed
}

// replaceAll substitutes every case-insensitive occurrence of term and
// returns the count.
func (doc *document) replaceAll(term, repl string) int {
	t := []rune(term)
	if len(t) == 0 {
		return 0
	}
	var out []rune
	count := 0
	for i := 0; i < len(doc.text); {
		if doc.foldAt(i, t) {
			out = append(out, []rune(repl)...)
			i += len(t)
			count++
			continue
		}
		out = append(out, doc.text[i])
		i++
	}
	if count > 0 {
		doc.text = out
		doc.setCaret(0)
		doc.dirty = true
	}
	return count
}

// field is a single-line input of the Replace dialog.
type field struct {
	text     []rune
	selected bool
}

func (f *field) insert(rs []rune) {
	if f.selected {
		f.text = nil
		f.selected = false
	}
	f.text = append(f.text, rs...)
}

func (f *field) erase() {
	switch {
	case f.selected:
		f.text = nil
		f.selected = false
	case len(f.text) > 0:
		f.text = f.text[:len(f.text)-1]
	}
}

func (f *field) String() string {
	return string(f.text)
}
