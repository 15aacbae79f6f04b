package glimpse

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cboone/glimpse/internal/config"
)

// MatchSnapshot compares the document's text against a golden file
// stored in testdata/<sanitized-test-name>-<hash>/<sanitized-name>.txt.
//
// Set GLIMPSE_UPDATE=1 to create or update golden files.
func (d *Doc) MatchSnapshot(name string) {
	d.t.Helper()
	matchTextSnapshot(d.t, name, d.Text())
}

func matchTextSnapshot(t testing.TB, name, text string) {
	t.Helper()

	dir := snapshotDir(t)
	path := filepath.Join(dir, sanitizeName(name)+".txt")
	content := normalizeForSnapshot(text)

	if config.UpdateRequested() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("glimpse: snapshot: failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("glimpse: snapshot: failed to write golden file: %v", err)
		}
		return
	}

	golden, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("glimpse: snapshot: golden file not found: %s\nRun with %s=1 to create it.\n\nActual text:\n%s", path, config.EnvUpdate, content)
		}
		t.Fatalf("glimpse: snapshot: failed to read golden file: %v", err)
	}

	if diff := cmp.Diff(string(golden), content); diff != "" {
		t.Fatalf("glimpse: snapshot: mismatch for %q\nGolden file: %s\nRun with %s=1 to update.\n\n(-golden +actual):\n%s",
			name, path, config.EnvUpdate, diff)
	}
}

// snapshotDir returns the directory for golden files for the current test.
// Uses testdata/<sanitized-test-name>-<hash>/ where hash ensures uniqueness.
func snapshotDir(t testing.TB) string {
	t.Helper()

	fullName := t.Name()
	h := sha256.Sum256([]byte(fullName))
	return filepath.Join("testdata", sanitizeName(fullName)+"-"+hex.EncodeToString(h[:4]))
}

// normalizeForSnapshot unifies line endings and ends the text with exactly
// one newline. Indentation is significant and kept as typed.
func normalizeForSnapshot(raw string) string {
	return strings.TrimRight(normalizeNewlines(raw), "\n") + "\n"
}

// SaveScreenshot writes region (the zero Region means the whole screen) as
// a PNG named name in the artifact directory and returns its path.
func (d *Doc) SaveScreenshot(name string, region Region) string {
	d.t.Helper()
	path, err := d.app.captureTo(name, region)
	if err != nil {
		d.t.Fatalf("glimpse: screenshot %s: %v", name, err)
	}
	return path
}

func artifactPath(dir, name string) string {
	if filepath.Ext(name) == "" {
		name += ".png"
	}
	return filepath.Join(dir, name)
}

// writePNG encodes img to path, creating parent directories.
func writePNG(path string, img image.Image) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
