package fakedesk

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboone/glimpse"
	"github.com/cboone/glimpse/notepadpp"
)

func TestDocumentAutoIndent(t *testing.T) {
	d := New()
	_, err := d.Start("notepad++.exe")
	require.NoError(t, err)

	require.NoError(t, d.Type(notepadpp.TypedText, 0))
	assert.Equal(t, notepadpp.SourceText, d.Text())
	assert.Equal(t, "*new 1 - Notepad++", d.mainTitle())
}

func TestDocumentFindAndReplace(t *testing.T) {
	doc := &document{text: []rune("Chip and chip")}

	require.True(t, doc.findNext("chip"))
	assert.Equal(t, "Chip", doc.selected(), "case-insensitive from the start")
	require.True(t, doc.findNext("chip"))
	assert.Equal(t, "chip", doc.selected())
	require.True(t, doc.findNext("CHIP"))
	s, _ := doc.selection()
	assert.Equal(t, 0, s, "wraps around")
	assert.False(t, doc.findNext("absent"))

	assert.True(t, doc.replace("chip", "X"))
	assert.Equal(t, "X and chip", string(doc.text))
	assert.Equal(t, "chip", doc.selected(), "moves on to the next occurrence")
	assert.False(t, doc.replace("absent", "Y"))

	assert.Equal(t, 1, doc.replaceAll("CHIP", "Y"))
	assert.Equal(t, "X and Y", string(doc.text))
	assert.Equal(t, 0, doc.replaceAll("", "Z"))
}

func TestDocumentEditing(t *testing.T) {
	doc := &document{}
	doc.insert([]rune("ab\ncd"))
	doc.backspace()
	assert.Equal(t, "ab\nc", string(doc.text))
	doc.home()
	assert.Equal(t, 3, doc.caret)
	doc.deleteForward()
	assert.Equal(t, "ab\n", string(doc.text))
	doc.selectAll()
	assert.Equal(t, "ab\r\n", doc.copyText())
}

func TestField(t *testing.T) {
	var f field
	f.insert([]rune("abc"))
	f.erase()
	assert.Equal(t, "ab", f.String())
	f.selected = true
	f.insert([]rune("x"))
	assert.Equal(t, "x", f.String())
	f.selected = true
	f.erase()
	assert.Empty(t, f.String())
}

func TestTemplates(t *testing.T) {
	a := Template(notepadpp.AssetFindNext)
	assert.Equal(t, a, Template(notepadpp.AssetFindNext), "deterministic")
	assert.NotEqual(t, a.Pix, Template(notepadpp.AssetReplaceAll).Pix)
	assert.Equal(t, image.Pt(24, 10), Template(notepadpp.AssetSearchMenu).Bounds().Size())

	dir := t.TempDir()
	require.NoError(t, WriteAssets(dir, notepadpp.AssetFindNext))
	assert.FileExists(t, filepath.Join(dir, notepadpp.AssetFindNext))
	_, err := os.Stat(filepath.Join(dir, notepadpp.AssetReplaceAll))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReplaceDialogFlow(t *testing.T) {
	d := New()
	_, err := d.Start("notepad++.exe")
	require.NoError(t, err)
	require.NoError(t, d.Type("one chip", 0))

	d.press(notepadpp.AssetSearchMenu)
	d.press(notepadpp.AssetReplaceSubmenu)
	w, ok, err := d.ActiveWindow()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Replace", w.Title)

	require.NoError(t, d.Type("chip", 0))
	require.NoError(t, d.Tap(glimpse.Tab))
	require.NoError(t, d.Type("CHIP", 0))
	d.press(notepadpp.AssetReplaceAll)
	d.press(notepadpp.AssetReplaceDialogClose)

	assert.Equal(t, "one CHIP", d.Text())
	assert.Equal(t, []string{"launch", "dialog:open", "replace-all:1", "dialog:close"}, d.Events())
}

func TestClosingDirtyDocumentPrompts(t *testing.T) {
	d := New()
	_, err := d.Start("notepad++.exe")
	require.NoError(t, err)
	require.NoError(t, d.Tap(glimpse.Key("n"), glimpse.ModCtrl))
	require.NoError(t, d.Type("text", 0))
	require.NoError(t, d.Tap(glimpse.Key("w"), glimpse.ModCtrl))

	w, _, _ := d.ActiveWindow()
	assert.Equal(t, PromptID, w.ID)
	require.NoError(t, d.Tap(glimpse.Key("n")))

	assert.Equal(t, []string{"new 1"}, d.Documents())
	assert.Equal(t, []string{"launch", "new", "prompt", "discard", "close"}, d.Events())
}
