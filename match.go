package glimpse

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// MatchConfig is one set of template-matching parameters.
type MatchConfig struct {
	// Confidence is the minimum correlation score in [0, 1].
	Confidence float64
	// Grayscale compares luminance only.
	Grayscale bool
}

func (c MatchConfig) String() string {
	mode := "color"
	if c.Grayscale {
		mode = "grayscale"
	}
	return fmt.Sprintf("confidence=%.2f %s", c.Confidence, mode)
}

// A Policy is an ordered list of match configurations. The Locator tries
// each in turn and stops at the first that finds the template.
type Policy []MatchConfig

// Relaxed returns a policy that tries cfg and then, if cfg is grayscale,
// the same confidence in colour.
func Relaxed(cfg MatchConfig) Policy {
	p := Policy{cfg}
	if cfg.Grayscale {
		p = append(p, MatchConfig{Confidence: cfg.Confidence})
	}
	return p
}

// Match confidence tiers.
var (
	// ControlPolicy locates interactive chrome: menus and buttons.
	ControlPolicy = Relaxed(MatchConfig{Confidence: 0.9, Grayscale: true})
	// IndicatorPolicy locates outcome indicators such as result banners.
	IndicatorPolicy = Relaxed(MatchConfig{Confidence: 0.85, Grayscale: true})
	// DismissPolicy locates buttons on prompts shown during teardown.
	DismissPolicy = Relaxed(MatchConfig{Confidence: 0.8, Grayscale: true})
)

// Match is a located template.
type Match struct {
	Asset  string
	Box    Region
	Score  float64
	Config MatchConfig
}

// Center returns the point to click.
func (m Match) Center() Point {
	return m.Box.Center()
}

func (m Match) String() string {
	return fmt.Sprintf("%s at %v (score %.3f, %v)", m.Asset, m.Box, m.Score, m.Config)
}

// TitleSet is a set of accepted window-title labels. A title matches when it
// contains any label, ignoring case.
type TitleSet []string

// Titles builds a TitleSet.
func Titles(labels ...string) TitleSet {
	return TitleSet(labels)
}

// Matches reports whether title contains any label in the set.
func (s TitleSet) Matches(title string) bool {
	fold := cases.Fold()
	folded := fold.String(title)
	for _, label := range s {
		if strings.Contains(folded, fold.String(label)) {
			return true
		}
	}
	return false
}

func (s TitleSet) String() string {
	quoted := make([]string, len(s))
	for i, l := range s {
		quoted[i] = fmt.Sprintf("%q", l)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// A WindowMatcher reports whether a Window satisfies a condition.
// The string return is a human-readable description for error messages.
type WindowMatcher func(w Window) (ok bool, description string)

// TitleIn matches windows whose title contains any label in set.
func TitleIn(set TitleSet) WindowMatcher {
	return func(w Window) (bool, string) {
		return set.Matches(w.Title), fmt.Sprintf("window title to contain one of %v", set)
	}
}

// TitleIs matches windows with exactly the given title.
func TitleIs(title string) WindowMatcher {
	return func(w Window) (bool, string) {
		return w.Title == title, fmt.Sprintf("window title to equal %q", title)
	}
}

// Not inverts a matcher.
func Not(m WindowMatcher) WindowMatcher {
	return func(w Window) (bool, string) {
		ok, desc := m(w)
		return !ok, "NOT(" + desc + ")"
	}
}

// All matches when every provided matcher matches.
func All(matchers ...WindowMatcher) WindowMatcher {
	return func(w Window) (bool, string) {
		descs := make([]string, 0, len(matchers))
		for _, m := range matchers {
			ok, desc := m(w)
			descs = append(descs, desc)
			if !ok {
				return false, "all of: " + strings.Join(descs, ", ")
			}
		}
		return true, "all of: " + strings.Join(descs, ", ")
	}
}

// Any matches when at least one provided matcher matches.
func Any(matchers ...WindowMatcher) WindowMatcher {
	return func(w Window) (bool, string) {
		descs := make([]string, 0, len(matchers))
		for _, m := range matchers {
			ok, desc := m(w)
			descs = append(descs, desc)
			if ok {
				return true, "any of: " + strings.Join(descs, ", ")
			}
		}
		return false, "any of: " + strings.Join(descs, ", ")
	}
}

// describe returns m's description without needing a real window.
func describe(m WindowMatcher) string {
	_, desc := m(Window{})
	return desc
}
