package notepadpp_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cboone/glimpse"
	"github.com/cboone/glimpse/internal/config"
	"github.com/cboone/glimpse/internal/fakedesk"
	"github.com/cboone/glimpse/notepadpp"
)

const (
	wrongIndicatorHelperEnv = "NOTEPADPP_WRONG_INDICATOR_HELPER"
	helperArtifactsEnv      = "NOTEPADPP_HELPER_ARTIFACTS"
)

// launchSimulated starts the suite against the simulated editor with every
// delay removed. An empty artifacts directory falls back to the helper
// environment or a temporary directory. It returns the app and the
// directory used.
func launchSimulated(t testing.TB, desk *fakedesk.Desktop, artifacts string) (*glimpse.App, string) {
	t.Helper()
	assets := t.TempDir()
	require.NoError(t, fakedesk.WriteAssets(assets))
	if artifacts == "" {
		artifacts = os.Getenv(helperArtifactsEnv)
	}
	if artifacts == "" {
		artifacts = t.TempDir()
	}
	app := notepadpp.Launch(t, "notepad++.exe",
		glimpse.WithDriver(desk),
		glimpse.WithAssetDir(assets),
		glimpse.WithArtifactDir(artifacts),
		glimpse.WithDelayScale(0),
	)
	return app, artifacts
}

func TestRunSuiteSimulated(t *testing.T) {
	desk := fakedesk.New()
	tables := notepadpp.DefaultTables()
	artifacts := t.TempDir()

	t.Run("suite", func(t *testing.T) {
		app, _ := launchSimulated(t, desk, artifacts)
		notepadpp.RunSuite(t, app, tables)
		assert.Equal(t, []string{"new 1"}, desk.Documents(), "every scenario closes its document")
	})

	assert.False(t, desk.Running(), "teardown quits the editor")

	var names []string
	for _, rows := range [][]notepadpp.Scenario{tables.Find, tables.Replace, tables.ReplaceAll} {
		for _, s := range rows {
			names = append(names, s.Artifact)
		}
	}
	for _, s := range tables.Replace {
		names = append(names, fmt.Sprintf("debug_replace_dialog_after_find_next_%s.png", s.Name))
	}
	names = append(names, "replace_dialog_close_test_success.png")
	for _, name := range names {
		assert.FileExists(t, filepath.Join(artifacts, name))
	}

	events := desk.Events()
	assert.Contains(t, events, "find:found")
	assert.Contains(t, events, "find:not-found")
	source := strings.ToLower(notepadpp.SourceText)
	for _, s := range tables.ReplaceAll {
		want := fmt.Sprintf("replace-all:%d", strings.Count(source, strings.ToLower(s.Find)))
		assert.Contains(t, events, want, s.Name)
	}
	assert.Equal(t, 3, count(events, "replace"), "one Replace per positive row")
	assert.Equal(t, count(events, "new"), count(events, "discard"), "every modified document is discarded")
}

func TestRunReplaceLeavesTextWhenAbsent(t *testing.T) {
	desk := fakedesk.New()
	app, _ := launchSimulated(t, desk, "")
	doc := app.NewDocument(t)

	notepadpp.RunReplace(t, doc, notepadpp.ReplaceScenarios[2])

	assert.Equal(t, notepadpp.SourceText, strings.ReplaceAll(desk.Text(), "\r\n", "\n"))
	assert.NotContains(t, desk.Events(), "replace")
}

func TestRunFindWrongIndicator(t *testing.T) {
	if os.Getenv(wrongIndicatorHelperEnv) == "1" {
		desk := fakedesk.New()
		app, _ := launchSimulated(t, desk, "")
		s := notepadpp.FindScenario("wrong_indicator", "chip", notepadpp.AssetFindNotFound, "never.png")
		notepadpp.RunFind(t, app.NewDocument(t), s)
		return
	}

	artifacts := t.TempDir()
	cmd := exec.Command(os.Args[0], "-test.run", "^TestRunFindWrongIndicator$")
	cmd.Env = append(os.Environ(), wrongIndicatorHelperEnv+"=1", helperArtifactsEnv+"="+artifacts)
	out, err := cmd.CombinedOutput()
	require.Error(t, err, "expected subprocess to fail, output:\n%s", out)

	assert.Contains(t, string(out), "glimpse: expect-image: VALIDATION FAILED")
	assert.FileExists(t, filepath.Join(artifacts, "error_validation_failed_find_text_not_found_dialog.png"))
	assert.NoFileExists(t, filepath.Join(artifacts, "never.png"))
}

func TestRunCloseReplaceDialog(t *testing.T) {
	desk := fakedesk.New()
	app, artifacts := launchSimulated(t, desk, "")

	notepadpp.RunCloseReplaceDialog(t, app.NewDocument(t))

	events := desk.Events()
	assert.Contains(t, events, "dialog:open")
	assert.Contains(t, events, "dialog:close")
	assert.FileExists(t, filepath.Join(artifacts, "replace_dialog_close_test_success.png"))
}

func TestSuiteTablesFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	yaml := "replace:\n  - name: positive_replace_once\n    find: chip\n    replace_with: NANOCHIP\n" +
		"replace_all:\n  - name: replace_all_ics\n    find: ICs\n    replace_with: chips\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv(config.EnvScenarios, path)

	tables := notepadpp.SuiteTables(t)

	require.Len(t, tables.Replace, 4)
	assert.Equal(t, "NANOCHIP", tables.Replace[0].ReplaceWith)
	require.Len(t, tables.ReplaceAll, 5)
	assert.Equal(t, "replace_all_ics", tables.ReplaceAll[4].Name)
}

func TestSuiteTablesDefault(t *testing.T) {
	t.Setenv(config.EnvScenarios, "")
	assert.Equal(t, notepadpp.DefaultTables(), notepadpp.SuiteTables(t))
}

func count(events []string, want string) int {
	n := 0
	for _, e := range events {
		if e == want {
			n++
		}
	}
	return n
}
