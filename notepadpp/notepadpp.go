// Package notepadpp is an end-to-end suite for the Find, Replace and
// Replace All features of Notepad++, built on glimpse.
//
// The suite needs template images of the editor's controls in the asset
// directory (see the Asset constants) and runs against whatever build
// GLIMPSE_EDITOR points at:
//
//	func TestNotepadPP(t *testing.T) {
//		app := notepadpp.Launch(t, "")
//		notepadpp.RunSuite(t, app, notepadpp.DefaultTables())
//	}
package notepadpp

import (
	"strings"
	"testing"
	"time"

	"github.com/cboone/glimpse"
)

// Template images, relative to the asset directory.
const (
	AssetSearchMenu         = "search_menu_item.png"
	AssetReplaceSubmenu     = "replace_submenu_item.png"
	AssetFindNext           = "find_next_button.png"
	AssetReplaceAction      = "replace_action_button.png"
	AssetReplaceAll         = "replace_all_button.png"
	AssetReplaceDialogClose = "replace_dialog_close_button.png"
	AssetDontSave           = "dont_save_button.png"
	AssetFindSuccess        = "find_success_indicator.png"
	AssetFindNotFound       = "find_text_not_found_dialog.png"
)

// AllAssets lists every template the suite uses.
var AllAssets = []string{
	AssetSearchMenu,
	AssetReplaceSubmenu,
	AssetFindNext,
	AssetReplaceAction,
	AssetReplaceAll,
	AssetReplaceDialogClose,
	AssetDontSave,
	AssetFindSuccess,
	AssetFindNotFound,
}

// MainTitle identifies the editor's main window.
const MainTitle = "Notepad++"

// Window title sets. English and Russian localizations are recognized.
var (
	ReplaceDialogTitles = glimpse.Titles("replace", "заменить", "find / replace")
	FindDialogTitles    = glimpse.Titles("replace", "find", "заменить", "найти", "find / replace")
	SaveDialogTitles    = glimpse.Titles("Notepad++", "Сохранить файл", "Save file")
)

// TabWidth is the editor's tab stop width, which its auto-indent uses.
const TabWidth = 4

// TypedText is the text every test types into a fresh document.
const TypedText = "     Integrated circuit design, Semiconductor design, chip design or IC design, is a sub-field of Electronics Engineering, encompassing the particular logic and circuit design techniques required to design integrated circuits, or ICs.\n" +
	"\n" +
	"     ICs consist of miniaturized electronics components built into an electrical network on a monolithic semiconductor substrate by photolithography."

// SourceText is TypedText as the editor reads it back. Auto-indent carries
// the first line's indentation onto the following lines, rewritten with a
// tab, so it differs from what was typed.
const SourceText = "     Integrated circuit design, Semiconductor design, chip design or IC design, is a sub-field of Electronics Engineering, encompassing the particular logic and circuit design techniques required to design integrated circuits, or ICs.\n" +
	"\t \n" +
	"\t      ICs consist of miniaturized electronics components built into an electrical network on a monolithic semiconductor substrate by photolithography."

// AutoIndent returns the indentation the editor inserts after Enter on
// line: the line's leading whitespace, measured in columns and rewritten as
// tabs followed by spaces.
func AutoIndent(line string) string {
	cols := 0
	for _, r := range line {
		switch r {
		case ' ':
			cols++
		case '\t':
			cols += TabWidth - cols%TabWidth
		default:
			return indentString(cols)
		}
	}
	return indentString(cols)
}

func indentString(cols int) string {
	return strings.Repeat("\t", cols/TabWidth) + strings.Repeat(" ", cols%TabWidth)
}

// Launch starts Notepad++ (or attaches to a running instance) with the
// suite's window titles and save prompt. An empty executable falls back to
// GLIMPSE_EDITOR. Extra options are applied after the defaults.
func Launch(t testing.TB, executable string, opts ...glimpse.Option) *glimpse.App {
	t.Helper()
	base := []glimpse.Option{
		glimpse.WithMainTitle(MainTitle),
		glimpse.WithSavePrompt(AssetDontSave, SaveDialogTitles),
	}
	app := glimpse.Launch(t, executable, append(base, opts...)...)
	app.Settle(initialWait)
	return app
}

// Fixed waits observed to be long enough on a typical desktop. All of them
// scale with glimpse.WithDelayScale.
const (
	initialWait       = 2 * time.Second
	menuSettle        = 300 * time.Millisecond
	fieldSettle       = 400 * time.Millisecond
	afterFindNext     = time.Second
	afterReplaceFind  = 800 * time.Millisecond
	afterReplace      = 1500 * time.Millisecond
	afterConfirmEnter = 500 * time.Millisecond
	beforeValidation  = 500 * time.Millisecond
	sourceInterval    = 5 * time.Millisecond
	fieldInterval     = 40 * time.Millisecond
)
