package notepadpp

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind is the editor feature a scenario exercises.
type Kind int

const (
	KindFind Kind = iota
	KindReplace
	KindReplaceAll
)

func (k Kind) String() string {
	switch k {
	case KindFind:
		return "find"
	case KindReplace:
		return "replace"
	case KindReplaceAll:
		return "replace_all"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Scenario is one row of a test table.
type Scenario struct {
	Name string
	Kind Kind
	// Find is the search term typed into the "Find what" field.
	Find string
	// ReplaceWith is typed into the "Replace with" field. It may be empty.
	ReplaceWith string
	// Expected is the document text after the action. Unused by Find.
	Expected string
	// Indicator is the template that must be visible after a Find.
	Indicator string
	// Artifact is the screenshot file written when the scenario passes.
	Artifact string
}

// Tables groups the scenarios of each kind.
type Tables struct {
	Find       []Scenario
	Replace    []Scenario
	ReplaceAll []Scenario
}

// ReplaceFirst returns src with the first case-sensitive occurrence of old
// replaced, which is what a single Replace does after Find Next.
func ReplaceFirst(src, old, repl string) string {
	return strings.Replace(src, old, repl, 1)
}

// ReplaceAllFold returns src with every case-insensitive occurrence of old
// replaced, which is what Replace All does with "Match case" off.
func ReplaceAllFold(src, old, repl string) string {
	if old == "" {
		return src
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(old))
	return re.ReplaceAllLiteralString(src, repl)
}

// FindScenario builds a Find row.
func FindScenario(name, find, indicator, artifact string) Scenario {
	return Scenario{Name: name, Kind: KindFind, Find: find, Indicator: indicator, Artifact: artifact}
}

// ReplaceScenario builds a Replace row whose expectation is derived from
// SourceText.
func ReplaceScenario(name, find, repl, artifact string) Scenario {
	return Scenario{
		Name:        name,
		Kind:        KindReplace,
		Find:        find,
		ReplaceWith: repl,
		Expected:    ReplaceFirst(SourceText, find, repl),
		Artifact:    artifact,
	}
}

// ReplaceAllScenario builds a Replace All row whose expectation is derived
// from SourceText.
func ReplaceAllScenario(name, find, repl, artifact string) Scenario {
	return Scenario{
		Name:        name,
		Kind:        KindReplaceAll,
		Find:        find,
		ReplaceWith: repl,
		Expected:    ReplaceAllFold(SourceText, find, repl),
		Artifact:    artifact,
	}
}

// FindScenarios, ReplaceScenarios and ReplaceAllScenarios are the built-in
// tables.
var (
	FindScenarios = []Scenario{
		FindScenario("positive_find_scenario", "chip", AssetFindSuccess, "notepad_find_positive_test.png"),
		FindScenario("negative_find_scenario", "no exist", AssetFindNotFound, "notepad_find_negative_test.png"),
	}

	ReplaceScenarios = []Scenario{
		ReplaceScenario("positive_replace_once", "chip", "MICROCHIP", "notepad_replace_positive_once.png"),
		ReplaceScenario("positive_replace_design_once", "design", "PLAN", "notepad_replace_design_once.png"),
		ReplaceScenario("negative_replace_nonexistent_word", "nonexistentword", "ANYTHING", "notepad_replace_nonexistent.png"),
		ReplaceScenario("positive_replace_with_empty_string", "Semiconductor", "", "notepad_replace_with_empty.png"),
	}

	ReplaceAllScenarios = []Scenario{
		ReplaceAllScenario("positive_replace_all_design", "design", "LAYOUT", "notepad_replace_all_design.png"),
		ReplaceAllScenario("positive_replace_all_circuit", "circuit", "NETWORK", "notepad_replace_all_circuit.png"),
		ReplaceAllScenario("positive_replace_all_semiconductor", "Semiconductor", "TransistorBased", "notepad_replace_all_semiconductor.png"),
		ReplaceAllScenario("negative_replace_all_nonexistent", "wordnotpresent", "SOMETHING", "notepad_replace_all_nonexistent.png"),
	}
)

// DefaultTables returns the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Find:       append([]Scenario(nil), FindScenarios...),
		Replace:    append([]Scenario(nil), ReplaceScenarios...),
		ReplaceAll: append([]Scenario(nil), ReplaceAllScenarios...),
	}
}

// Merge appends the rows of other to t. Rows of other whose name is already
// present replace the existing row in place.
func (t Tables) Merge(other Tables) Tables {
	return Tables{
		Find:       mergeRows(t.Find, other.Find),
		Replace:    mergeRows(t.Replace, other.Replace),
		ReplaceAll: mergeRows(t.ReplaceAll, other.ReplaceAll),
	}
}

func mergeRows(base, extra []Scenario) []Scenario {
	out := append([]Scenario(nil), base...)
	index := make(map[string]int, len(out))
	for i, s := range out {
		index[s.Name] = i
	}
	for _, s := range extra {
		if i, ok := index[s.Name]; ok {
			out[i] = s
			continue
		}
		index[s.Name] = len(out)
		out = append(out, s)
	}
	return out
}

// RequiredAssets returns the templates a scenario of kind k needs.
func RequiredAssets(k Kind, s Scenario) []string {
	nav := []string{AssetSearchMenu, AssetReplaceSubmenu}
	switch k {
	case KindFind:
		return append(nav, AssetFindNext, s.Indicator)
	case KindReplace:
		return append(nav, AssetFindNext, AssetReplaceAction)
	case KindReplaceAll:
		return append(nav, AssetReplaceAll)
	default:
		return nav
	}
}

// CloseDialogAssets are the templates the dialog-close test needs.
var CloseDialogAssets = []string{AssetSearchMenu, AssetReplaceSubmenu, AssetReplaceDialogClose}
