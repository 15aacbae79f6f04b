package notepadpp

import (
	"testing"

	"github.com/cboone/glimpse"
	"github.com/cboone/glimpse/internal/config"
)

// RunSuite runs every scenario of tables, plus the dialog-close test, as
// subtests of t. Each subtest gets a fresh document.
func RunSuite(t *testing.T, app *glimpse.App, tables Tables) {
	t.Helper()

	t.Run("Find", func(t *testing.T) {
		for _, s := range tables.Find {
			t.Run(s.Name, func(t *testing.T) {
				RunFind(t, app.NewDocument(t), s)
			})
		}
	})
	t.Run("Replace", func(t *testing.T) {
		for _, s := range tables.Replace {
			t.Run(s.Name, func(t *testing.T) {
				RunReplace(t, app.NewDocument(t), s)
			})
		}
	})
	t.Run("ReplaceAll", func(t *testing.T) {
		for _, s := range tables.ReplaceAll {
			t.Run(s.Name, func(t *testing.T) {
				RunReplaceAll(t, app.NewDocument(t), s)
			})
		}
	})
	t.Run("CloseReplaceDialog", func(t *testing.T) {
		RunCloseReplaceDialog(t, app.NewDocument(t))
	})
}

// SuiteTables returns the built-in tables merged with the file named by
// GLIMPSE_SCENARIOS, if set. A bad file fails t.
func SuiteTables(t testing.TB) Tables {
	t.Helper()
	tables := DefaultTables()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("notepadpp: %v", err)
	}
	if cfg.ScenarioFile == "" {
		return tables
	}
	extra, err := LoadScenarios(cfg.ScenarioFile)
	if err != nil {
		t.Fatalf("notepadpp: %v", err)
	}
	t.Logf("notepadpp: loaded %d extra scenarios from %s", len(extra.Find)+len(extra.Replace)+len(extra.ReplaceAll), cfg.ScenarioFile)
	return tables.Merge(extra)
}
