package notepadpp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// scenarioFile is the YAML layout of an extra scenario table:
//
//	find:
//	  - name: find_microchip
//	    find: electronics
//	    indicator: found
//	replace:
//	  - name: replace_substrate
//	    find: substrate
//	    replace_with: wafer
//	replace_all:
//	  - name: replace_all_ics
//	    find: ICs
//	    replace_with: chips
//	    artifact: all_ics.png
type scenarioFile struct {
	Find       []scenarioRow `yaml:"find"`
	Replace    []scenarioRow `yaml:"replace"`
	ReplaceAll []scenarioRow `yaml:"replace_all"`
}

type scenarioRow struct {
	Name        string  `yaml:"name"`
	Find        string  `yaml:"find"`
	ReplaceWith string  `yaml:"replace_with"`
	Indicator   string  `yaml:"indicator"`
	Artifact    string  `yaml:"artifact"`
	Expected    *string `yaml:"expected"`
}

// Indicator aliases accepted in scenario files.
var indicatorAliases = map[string]string{
	"found":     AssetFindSuccess,
	"not_found": AssetFindNotFound,
}

// LoadScenarios reads extra scenario tables from a YAML file.
func LoadScenarios(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read scenarios: %w", err)
	}
	tables, err := ParseScenarios(data)
	if err != nil {
		return Tables{}, fmt.Errorf("%s: %w", path, err)
	}
	return tables, nil
}

// ParseScenarios decodes YAML scenario tables. Replace expectations are
// derived from SourceText unless a row sets expected explicitly.
func ParseScenarios(data []byte) (Tables, error) {
	var f scenarioFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Tables{}, fmt.Errorf("parse scenarios: %w", err)
	}

	seen := make(map[string]bool)
	var t Tables
	var errs []error
	for i, r := range f.Find {
		s, err := r.scenario(KindFind, i, seen)
		errs = append(errs, err)
		t.Find = append(t.Find, s)
	}
	for i, r := range f.Replace {
		s, err := r.scenario(KindReplace, i, seen)
		errs = append(errs, err)
		t.Replace = append(t.Replace, s)
	}
	for i, r := range f.ReplaceAll {
		s, err := r.scenario(KindReplaceAll, i, seen)
		errs = append(errs, err)
		t.ReplaceAll = append(t.ReplaceAll, s)
	}
	if err := errors.Join(errs...); err != nil {
		return Tables{}, err
	}
	return t, nil
}

func (r scenarioRow) scenario(k Kind, i int, seen map[string]bool) (Scenario, error) {
	where := fmt.Sprintf("%s[%d]", k, i)
	switch {
	case r.Name == "":
		return Scenario{}, fmt.Errorf("%s: name is required", where)
	case seen[r.Name]:
		return Scenario{}, fmt.Errorf("%s: duplicate name %q", where, r.Name)
	case r.Find == "":
		return Scenario{}, fmt.Errorf("%s (%s): find is required", where, r.Name)
	}
	seen[r.Name] = true

	artifact := r.Artifact
	if artifact == "" {
		artifact = fmt.Sprintf("notepad_%s_%s.png", k, r.Name)
	}

	var s Scenario
	switch k {
	case KindFind:
		if r.ReplaceWith != "" || r.Expected != nil {
			return Scenario{}, fmt.Errorf("%s (%s): find rows take no replace_with or expected", where, r.Name)
		}
		indicator := r.Indicator
		if alias, ok := indicatorAliases[indicator]; ok {
			indicator = alias
		}
		if indicator == "" {
			return Scenario{}, fmt.Errorf("%s (%s): indicator is required", where, r.Name)
		}
		return FindScenario(r.Name, r.Find, indicator, artifact), nil
	case KindReplace:
		s = ReplaceScenario(r.Name, r.Find, r.ReplaceWith, artifact)
	default:
		s = ReplaceAllScenario(r.Name, r.Find, r.ReplaceWith, artifact)
	}
	if r.Indicator != "" {
		return Scenario{}, fmt.Errorf("%s (%s): indicator is only valid for find rows", where, r.Name)
	}
	if r.Expected != nil {
		s.Expected = *r.Expected
	}
	return s, nil
}
