package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboone/glimpse"
	"github.com/cboone/glimpse/internal/fakedesk"
	"github.com/cboone/glimpse/notepadpp"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// run executes the command line args against a running simulated editor.
func run(t *testing.T, desk *fakedesk.Desktop, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(desk)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func startedDesk(t *testing.T) *fakedesk.Desktop {
	t.Helper()
	desk := fakedesk.New()
	_, err := desk.Start("notepad++.exe")
	require.NoError(t, err)
	return desk
}

func TestWindows(t *testing.T) {
	out, err := run(t, startedDesk(t), "windows")
	require.NoError(t, err)
	assert.Contains(t, out, "1 windows")
	assert.Contains(t, out, `"new 1 - Notepad++"`)
	assert.Contains(t, out, "*")
}

func TestLocate(t *testing.T) {
	desk := startedDesk(t)
	dir := t.TempDir()
	require.NoError(t, fakedesk.WriteAssets(dir))

	out, err := run(t, desk, "locate", "--assets", dir, notepadpp.AssetSearchMenu)
	require.NoError(t, err)
	assert.Contains(t, out, "Located 1 of 1 assets")
	assert.Contains(t, out, "✓ "+notepadpp.AssetSearchMenu)

	out, err = run(t, desk, "locate", "--assets", dir, "--policy", "indicator", notepadpp.AssetFindSuccess)
	require.EqualError(t, err, "1 of 1 assets not found")
	assert.Contains(t, out, "✗ "+notepadpp.AssetFindSuccess)
}

func TestLocateAllAssetsInDir(t *testing.T) {
	desk := startedDesk(t)
	dir := t.TempDir()
	require.NoError(t, fakedesk.WriteAssets(dir, notepadpp.AssetSearchMenu, notepadpp.AssetReplaceAll))

	out, err := run(t, desk, "locate", "--assets", dir)
	require.EqualError(t, err, "1 of 2 assets not found")
	assert.Contains(t, out, "Located 1 of 2 assets")
	assert.Contains(t, out, "✗ "+notepadpp.AssetReplaceAll)
}

func TestLocateBadFlags(t *testing.T) {
	desk := startedDesk(t)
	_, err := run(t, desk, "locate", "--policy", "loose", "x.png")
	assert.ErrorContains(t, err, `unknown policy "loose"`)
	_, err = run(t, desk, "locate", "--region", "1,2,3", "x.png")
	assert.ErrorContains(t, err, "want x,y,width,height")
	_, err = run(t, desk, "locate", "--assets", t.TempDir())
	assert.ErrorContains(t, err, "no PNG files")
}

func TestCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shots", "corner.png")
	out, err := run(t, startedDesk(t), "capture", "--region", "0,0,12,8", path)
	require.NoError(t, err)
	assert.Contains(t, out, "captured")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestClipboard(t *testing.T) {
	desk := startedDesk(t)
	_, err := run(t, desk, "clipboard", "--set", "hello")
	require.NoError(t, err)

	out, err := run(t, desk, "clipboard")
	require.NoError(t, err)
	assert.Equal(t, "\"hello\"\n", out)

	_, err = run(t, desk, "clipboard", "stray")
	assert.ErrorContains(t, err, "without --set")
}

func TestParseRegion(t *testing.T) {
	r, err := parseRegion(" 1, 2,3 ,4")
	require.NoError(t, err)
	assert.Equal(t, glimpse.Region{X: 1, Y: 2, Width: 3, Height: 4}, r)

	r, err = parseRegion("")
	require.NoError(t, err)
	assert.Equal(t, glimpse.Region{}, r)

	_, err = parseRegion("0,0,0,5")
	assert.ErrorContains(t, err, "must be positive")
	_, err = parseRegion("a,0,1,1")
	assert.Error(t, err)
}
