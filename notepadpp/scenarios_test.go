package notepadpp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceFirst(t *testing.T) {
	assert.Equal(t, "a X b chip", ReplaceFirst("a chip b chip", "chip", "X"))
	assert.Equal(t, "Chip chip", ReplaceFirst("Chip chip", "CHIP", "X"), "case-sensitive")
	assert.Equal(t, "a  b", ReplaceFirst("a word b", "word", ""))
	assert.Equal(t, "unchanged", ReplaceFirst("unchanged", "absent", "X"))
}

func TestReplaceAllFold(t *testing.T) {
	assert.Equal(t, "X and X and X", ReplaceAllFold("Semi and semi and SEMI", "semi", "X"))
	assert.Equal(t, "a.b", ReplaceAllFold("a.b", ".*", "X"), "the term is literal")
	assert.Equal(t, "same", ReplaceAllFold("same", "", "X"))
}

func TestBuiltInTables(t *testing.T) {
	require.Len(t, FindScenarios, 2)
	require.Len(t, ReplaceScenarios, 4)
	require.Len(t, ReplaceAllScenarios, 4)

	for _, s := range append(append([]Scenario{}, ReplaceScenarios...), ReplaceAllScenarios...) {
		if strings.HasPrefix(s.Name, "negative_") {
			assert.Equal(t, SourceText, s.Expected, "%s must leave the text unchanged", s.Name)
			assert.NotContains(t, strings.ToLower(SourceText), strings.ToLower(s.Find), s.Name)
		} else {
			assert.NotEqual(t, SourceText, s.Expected, "%s must change the text", s.Name)
		}
		assert.True(t, strings.HasSuffix(s.Artifact, ".png"), s.Name)
	}

	once := ReplaceScenarios[0]
	assert.Equal(t, "positive_replace_once", once.Name)
	assert.Equal(t, 1, strings.Count(once.Expected, "MICROCHIP"))
	assert.Equal(t, strings.Count(SourceText, "chip")-1, strings.Count(once.Expected, "chip"))

	all := ReplaceAllScenarios[2]
	assert.NotContains(t, strings.ToLower(all.Expected), "semiconductor")
	assert.Equal(t, 2, strings.Count(all.Expected, "TransistorBased"))

	assert.Equal(t, AssetFindSuccess, FindScenarios[0].Indicator)
	assert.Equal(t, AssetFindNotFound, FindScenarios[1].Indicator)
}

func TestDefaultTablesAreCopies(t *testing.T) {
	tables := DefaultTables()
	tables.Replace[0].Find = "mutated"
	assert.Equal(t, "chip", ReplaceScenarios[0].Find)
}

func TestMerge(t *testing.T) {
	base := DefaultTables()
	extra := Tables{
		Replace: []Scenario{
			ReplaceScenario("positive_replace_once", "chip", "NANOCHIP", "once.png"),
			ReplaceScenario("replace_substrate", "substrate", "wafer", "substrate.png"),
		},
	}
	merged := base.Merge(extra)

	require.Len(t, merged.Replace, 5)
	assert.Equal(t, "NANOCHIP", merged.Replace[0].ReplaceWith, "same name replaces in place")
	assert.Equal(t, "replace_substrate", merged.Replace[4].Name)
	assert.Len(t, merged.Find, 2)
	assert.Equal(t, "MICROCHIP", base.Replace[0].ReplaceWith, "base is not modified")
}

func TestRequiredAssets(t *testing.T) {
	find := RequiredAssets(KindFind, FindScenarios[1])
	assert.Equal(t, []string{AssetSearchMenu, AssetReplaceSubmenu, AssetFindNext, AssetFindNotFound}, find)
	assert.Contains(t, RequiredAssets(KindReplace, ReplaceScenarios[0]), AssetReplaceAction)
	assert.Contains(t, RequiredAssets(KindReplaceAll, ReplaceAllScenarios[0]), AssetReplaceAll)
	assert.NotContains(t, RequiredAssets(KindReplaceAll, ReplaceAllScenarios[0]), AssetFindNext)
}
