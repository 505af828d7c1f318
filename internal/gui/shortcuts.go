package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/polyglot/internal/languages"
)

const hotkeysText = `## Vocabulary
**1-5** Select language  
**n / →** Next word  
**l** Listen  

## Translation
**t** Focus the input  
**Enter** Translate  
**Esc** Unfocus field  

## Photo
**p** Pick a photo  
**o** Translate the photo text  

## Other
**h** Show hotkeys  
**c** Close dialog  
**q** Quit application`

// setupKeyboardShortcuts handles keys typed while no field is focused
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if a.window.Canvas().Focused() == a.inputEntry {
			return
		}
		a.handleShortcutRune(r)
	})

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape:
			a.window.Canvas().Unfocus()
		case fyne.KeyRight:
			if a.window.Canvas().Focused() != a.inputEntry && !a.nextBtn.Disabled() {
				a.onNext()
			}
		}
	})
}

// handleShortcutRune handles the actual shortcut action
func (a *Application) handleShortcutRune(r rune) {
	if r >= '1' && r <= '9' {
		all := languages.All()
		if i := int(r - '1'); i < len(all) {
			a.languageSelect.SetSelected(all[i].Label)
		}
		return
	}

	switch r {
	case 'n', 'N':
		if !a.nextBtn.Disabled() {
			a.onNext()
		}
	case 'l', 'L':
		if a.listenBtn.Visible() && !a.listenBtn.Disabled() {
			a.onListen()
		}
	case 't', 'T':
		if a.translateSection.Visible() {
			a.window.Canvas().Focus(a.inputEntry)
		}
	case 'p', 'P':
		if a.photoSection.Visible() && !a.pickPhotoBtn.Disabled() {
			a.onPickPhoto()
		}
	case 'o', 'O':
		if a.photoSection.Visible() && !a.translatePhotoBtn.Disabled() {
			a.onTranslatePhoto()
		}
	case 'h', 'H':
		a.onShowHotkeys()
	case 'q', 'Q':
		a.window.Close()
	}
}

// onShowHotkeys shows the keyboard shortcuts dialog
func (a *Application) onShowHotkeys() {
	content := widget.NewRichTextFromMarkdown(hotkeysText)
	content.Wrapping = fyne.TextWrapWord

	scroll := container.NewScroll(container.NewPadded(content))
	scroll.SetMinSize(fyne.NewSize(420, 360))

	d := dialog.NewCustom("Keyboard Shortcuts", "Close", scroll, a.window)

	dialogOpen := true
	originalRuneHandler := a.window.Canvas().OnTypedRune()
	a.window.Canvas().SetOnTypedRune(func(r rune) {
		if dialogOpen && (r == 'c' || r == 'C') {
			d.Hide()
			return
		}
		if originalRuneHandler != nil {
			originalRuneHandler(r)
		}
	})

	d.SetOnClosed(func() {
		dialogOpen = false
		a.setupKeyboardShortcuts()
	})
	d.Show()
}
