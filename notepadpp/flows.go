package notepadpp

import (
	"fmt"
	"testing"
	"time"

	"github.com/cboone/glimpse"
)

// TypeSource types TypedText into the focused document.
func TypeSource(doc *glimpse.Doc, interval time.Duration, settle time.Duration) {
	doc.Type(TypedText, glimpse.Interval(interval), glimpse.After(settle))
}

// OpenReplaceDialog opens Search > Replace... through the menu. A foreground
// window that does not look like the Replace dialog is logged, not fatal.
func OpenReplaceDialog(t testing.TB, doc *glimpse.Doc) {
	t.Helper()
	doc.ClickAsset(AssetSearchMenu, glimpse.ControlPolicy, glimpse.Region{}, glimpse.After(halfDelay(doc)))
	doc.ClickAsset(AssetReplaceSubmenu, glimpse.ControlPolicy, glimpse.Region{})

	active, ok := activeWindow(doc)
	if !ok || !ReplaceDialogTitles.Matches(active.Title) {
		t.Logf("notepadpp: warning: Replace dialog may not be active (active: %q)", active.Title)
	}
}

// dialogRegion returns the bounds of the foreground window when its title is
// in titles, otherwise fallback. The result is logged either way.
func dialogRegion(t testing.TB, doc *glimpse.Doc, titles glimpse.TitleSet, fallback glimpse.Region, what string) glimpse.Region {
	t.Helper()
	active, ok := activeWindow(doc)
	if ok && titles.Matches(active.Title) {
		t.Logf("notepadpp: searching for %s within dialog %v", what, active)
		return active.Bounds
	}
	where := "whole screen"
	if fallback != (glimpse.Region{}) {
		where = "region " + fallback.String()
	}
	t.Logf("notepadpp: warning: could not determine dialog window (active: %q); searching %s for %s", active.Title, where, what)
	return fallback
}

// RunFind types the source text, searches for s.Find with Find Next and
// checks that s.Indicator appears in the main window.
func RunFind(t testing.TB, doc *glimpse.Doc, s Scenario) {
	t.Helper()
	doc.RequireAssets(RequiredAssets(KindFind, s)...)

	TypeSource(doc, time.Millisecond, doc.App().ActionDelay())
	OpenReplaceDialog(t, doc)

	doc.Type(s.Find, glimpse.Interval(sourceInterval), glimpse.After(halfDelay(doc)))

	region := dialogRegion(t, doc, FindDialogTitles, glimpse.Region{}, "Find Next")
	doc.ClickAsset(AssetFindNext, glimpse.ControlPolicy, region, glimpse.After(afterFindNext))

	doc.Settle(beforeValidation)
	doc.ExpectImage(s.Indicator, doc.MainWindow())
	doc.CaptureArtifact(s.Artifact)

	doc.Tap(glimpse.Escape, glimpse.After(halfDelay(doc)))
}

// fillReplaceDialog types the search term, confirms the Find field holds
// it, then fills the Replace field.
func fillReplaceDialog(t testing.TB, doc *glimpse.Doc, s Scenario) {
	t.Helper()
	doc.Type(s.Find, glimpse.Interval(fieldInterval), glimpse.After(fieldSettle))

	if got := doc.Text(); got != s.Find {
		t.Fatalf("notepadpp: %s: Find field holds %q, want %q", s.Name, got, s.Find)
	}

	doc.Tap(glimpse.Tab, glimpse.After(fieldSettle))
	doc.Hotkey(glimpse.Ctrl('a'), glimpse.After(100*time.Millisecond))
	doc.Tap(glimpse.Delete, glimpse.After(200*time.Millisecond))
	doc.Type(s.ReplaceWith, glimpse.Interval(fieldInterval), glimpse.After(beforeValidation))
}

// prepareReplace types the source text, moves to the top of the document
// and opens the Replace dialog with both fields filled. It returns the
// region to search for dialog buttons.
func prepareReplace(t testing.TB, doc *glimpse.Doc, s Scenario) glimpse.Region {
	t.Helper()
	doc.ActivateMain()
	TypeSource(doc, sourceInterval, halfDelay(doc))
	doc.Hotkey(glimpse.Chord(glimpse.Home, glimpse.ModCtrl), glimpse.After(menuSettle))

	OpenReplaceDialog(t, doc)
	fillReplaceDialog(t, doc, s)

	return dialogRegion(t, doc, ReplaceDialogTitles, doc.MainWindow().Bounds, "dialog buttons")
}

// closeReplaceDialog presses Esc if the Replace dialog still has focus.
func closeReplaceDialog(t testing.TB, doc *glimpse.Doc) {
	t.Helper()
	if active, ok := activeWindow(doc); ok && ReplaceDialogTitles.Matches(active.Title) {
		doc.Tap(glimpse.Escape, glimpse.After(halfDelay(doc)))
		return
	}
	t.Logf("notepadpp: Replace dialog already closed")
}

// RunReplace performs one Find Next + Replace and checks the document text.
// When the term is absent, Find Next changes nothing and the text oracle
// alone decides the outcome.
func RunReplace(t testing.TB, doc *glimpse.Doc, s Scenario) {
	t.Helper()
	doc.RequireAssets(RequiredAssets(KindReplace, s)...)

	region := prepareReplace(t, doc, s)

	doc.ClickAsset(AssetFindNext, glimpse.ControlPolicy, region, glimpse.After(afterReplaceFind))
	doc.SaveScreenshot(fmt.Sprintf("debug_replace_dialog_after_find_next_%s.png", s.Name), region)

	doc.ClickAsset(AssetReplaceAction, glimpse.ControlPolicy, region, glimpse.After(afterReplace))

	closeReplaceDialog(t, doc)
	expectDocument(doc, s)
}

// RunReplaceAll presses Replace All and checks the document text.
func RunReplaceAll(t testing.TB, doc *glimpse.Doc, s Scenario) {
	t.Helper()
	doc.RequireAssets(RequiredAssets(KindReplaceAll, s)...)

	region := prepareReplace(t, doc, s)

	doc.ClickAsset(AssetReplaceAll, glimpse.ControlPolicy, region, glimpse.After(afterReplace))
	// Some builds confirm Replace All with a message box.
	doc.Tap(glimpse.Enter, glimpse.After(afterConfirmEnter))

	closeReplaceDialog(t, doc)
	expectDocument(doc, s)
}

func expectDocument(doc *glimpse.Doc, s Scenario) {
	doc.ActivateMain()
	doc.ExpectText(s.Expected)
	doc.CaptureArtifact(s.Artifact)
}

// RunCloseReplaceDialog opens the Replace dialog, clicks its Close button
// and checks that the dialog is gone and the main window has focus.
func RunCloseReplaceDialog(t testing.TB, doc *glimpse.Doc) {
	t.Helper()
	doc.RequireAssets(CloseDialogAssets...)

	doc.ActivateMain()
	TypeSource(doc, sourceInterval, halfDelay(doc))
	doc.Hotkey(glimpse.Chord(glimpse.Home, glimpse.ModCtrl), glimpse.After(menuSettle))

	OpenReplaceDialog(t, doc)

	active, ok := activeWindow(doc)
	if !ok || !ReplaceDialogTitles.Matches(active.Title) {
		doc.SaveScreenshot("error_replace_dialog_close_test_dialog_not_active_before_close.png", glimpse.Region{})
		t.Fatalf("notepadpp: Replace dialog not active before close (active: %q)", active.Title)
	}

	doc.ClickAsset(AssetReplaceDialogClose, glimpse.ControlPolicy, active.Bounds, glimpse.After(time.Second))

	doc.ExpectNoWindow(glimpse.TitleIn(ReplaceDialogTitles))
	main := doc.MainWindow()
	doc.ExpectActive(glimpse.TitleIs(main.Title))
	doc.CaptureArtifact("replace_dialog_close_test_success.png")
}

func activeWindow(doc *glimpse.Doc) (glimpse.Window, bool) {
	w, ok, err := doc.App().Driver().ActiveWindow()
	if err != nil {
		return glimpse.Window{}, false
	}
	return w, ok
}

func halfDelay(doc *glimpse.Doc) time.Duration {
	return doc.App().ActionDelay() / 2
}
