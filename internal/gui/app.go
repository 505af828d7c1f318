package gui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
	"go.uber.org/zap"

	"codeberg.org/snonux/polyglot/internal"
	"codeberg.org/snonux/polyglot/internal/chat"
	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/ocr"
	"codeberg.org/snonux/polyglot/internal/session"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// Vocabulary
	languageSelect *widget.Select
	wordLabel      *widget.Label
	progressLabel  *widget.Label
	listenBtn      *ttwidget.Button
	nextBtn        *ttwidget.Button

	// Free translation
	inputEntry       *PhraseEntry
	translateBtn     *ttwidget.Button
	translationLabel *widget.Label
	translateSection *fyne.Container

	// Photo translation
	photoDisplay          *PhotoDisplay
	pickPhotoBtn          *ttwidget.Button
	translatePhotoBtn     *ttwidget.Button
	photoTextLabel        *widget.Label
	photoTranslationLabel *widget.Label
	photoSection          *fyne.Container

	statusLabel *widget.Label
	logViewer   *LogViewer

	session     *session.Controller
	unsubscribe func()
	rendered    versionGate
	logger      *zap.Logger

	// Background requests
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Config holds GUI application configuration
type Config struct {
	Completer     chat.Completer
	Speaker       session.Speaker   // Optional, enables Listen
	Extractor     ocr.TextExtractor // ocr.Placeholder when nil
	Recorder      session.Recorder  // Optional request journal
	WordCount     int
	DisablePhoto  bool
	DisableFreeTx bool
	Logger        *zap.Logger
}

// New creates a new GUI application
func New(config *Config) *Application {
	if config == nil {
		config = &Config{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:       app.NewWithID("org.codeberg.snonux.polyglot"),
		logViewer: NewLogViewer(),
		ctx:       ctx,
		cancel:    cancel,
	}
	a.logger = a.logViewer.Tee(config.Logger, zap.InfoLevel)

	sessionConfig := &session.Config{
		WordCount:            config.WordCount,
		Speaker:              config.Speaker,
		Recorder:             config.Recorder,
		DisableFreeTranslate: config.DisableFreeTx,
		Logger:               a.logger,
	}
	if !config.DisablePhoto {
		sessionConfig.Picker = a.dialogPicker()
		sessionConfig.Extractor = config.Extractor
	}
	a.session = session.New(config.Completer, sessionConfig)

	a.setupUI()
	a.unsubscribe = a.session.Subscribe(func(s session.State) {
		v := newView(s, a.session.Capabilities())
		fyne.Do(func() { a.renderLatest(v) })
	})

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("Polyglot v%s", internal.Version))
	a.window.Resize(fyne.NewSize(720, 640))

	// Vocabulary section
	a.languageSelect = widget.NewSelect(languages.Labels(), a.onLanguageSelected)
	a.wordLabel = widget.NewLabelWithStyle(placeholderWord, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	a.wordLabel.Wrapping = fyne.TextWrapWord
	a.progressLabel = widget.NewLabel("")
	a.progressLabel.TextStyle = fyne.TextStyle{Italic: true}

	a.listenBtn = ttwidget.NewButtonWithIcon("Listen", theme.VolumeUpIcon(), a.onListen)
	a.nextBtn = ttwidget.NewButtonWithIcon("Next", theme.NavigateNextIcon(), a.onNext)

	vocabularySection := container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Language:"), a.progressLabel, a.languageSelect),
		a.wordLabel,
		container.NewHBox(layout.NewSpacer(), a.listenBtn, a.nextBtn, layout.NewSpacer()),
	)

	// Free translation section
	a.inputEntry = NewPhraseEntry()
	a.inputEntry.SetPlaceHolder("Text to translate...")
	a.inputEntry.OnChanged = a.session.SetInput
	a.inputEntry.OnSubmitted = func(string) {
		a.onTranslate()
		a.window.Canvas().Unfocus()
	}
	a.inputEntry.SetOnEscape(func() { a.window.Canvas().Unfocus() })

	a.translateBtn = ttwidget.NewButtonWithIcon("", theme.ConfirmIcon(), a.onTranslate)
	a.translationLabel = widget.NewLabel("")
	a.translationLabel.Wrapping = fyne.TextWrapWord

	a.translateSection = container.NewVBox(
		container.NewBorder(nil, nil, nil, a.translateBtn, a.inputEntry),
		a.translationLabel,
	)

	// Photo section
	a.photoDisplay = NewPhotoDisplay()
	a.pickPhotoBtn = ttwidget.NewButtonWithIcon("Pick photo", theme.FileImageIcon(), a.onPickPhoto)
	a.translatePhotoBtn = ttwidget.NewButtonWithIcon("Translate photo", theme.SearchIcon(), a.onTranslatePhoto)
	a.photoTextLabel = widget.NewLabel(placeholderPhotoTxt)
	a.photoTextLabel.Wrapping = fyne.TextWrapWord
	a.photoTranslationLabel = widget.NewLabel("")
	a.photoTranslationLabel.Wrapping = fyne.TextWrapWord

	a.photoSection = container.NewBorder(
		container.NewHBox(a.pickPhotoBtn, a.translatePhotoBtn),
		nil, nil, nil,
		container.NewHSplit(
			a.photoDisplay,
			container.NewVBox(a.photoTextLabel, widget.NewSeparator(), a.photoTranslationLabel),
		),
	)

	helpButton := ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	a.statusLabel = widget.NewLabel("Ready")
	statusSection := container.NewVBox(
		widget.NewSeparator(),
		container.NewBorder(nil, nil, nil, helpButton, a.statusLabel),
		a.logViewer,
	)

	content := container.NewBorder(
		container.NewVBox(
			vocabularySection,
			widget.NewSeparator(),
			a.translateSection,
			widget.NewSeparator(),
		),
		statusSection,
		nil, nil,
		a.photoSection,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	a.listenBtn.SetToolTip("Listen to the word (l)")
	a.nextBtn.SetToolTip("Next word (n / →)")
	a.translateBtn.SetToolTip("Translate (Enter)")
	a.pickPhotoBtn.SetToolTip("Pick a photo (p)")
	a.translatePhotoBtn.SetToolTip("Translate the photo text (o)")
	helpButton.SetToolTip("Show hotkeys (h)")

	a.window.SetOnClosed(func() {
		a.cancel()
		a.unsubscribe()
		a.session.Close()
		a.wg.Wait()
	})

	a.setupKeyboardShortcuts()
	a.renderLatest(newView(a.session.State(), a.session.Capabilities()))
}

// Run starts the GUI application and fetches the default vocabulary
func (a *Application) Run() {
	a.languageSelect.SetSelected(a.session.State().Language.Label)
	a.window.ShowAndRun()
}

// renderLatest renders v unless a newer snapshot is already on screen
func (a *Application) renderLatest(v view) {
	if a.rendered.admit(v.Version) {
		a.render(v)
	}
}

// render applies a view to the widgets; it must run on the UI goroutine
func (a *Application) render(v view) {
	if a.languageSelect.Selected != v.Language {
		a.languageSelect.Selected = v.Language
		a.languageSelect.Refresh()
	}
	a.wordLabel.SetText(v.Word)
	a.progressLabel.SetText(v.Progress)
	a.statusLabel.SetText(v.Status)
	a.translationLabel.SetText(v.Translation)
	a.photoTextLabel.SetText(v.PhotoText)
	a.photoTranslationLabel.SetText(v.PhotoTranslation)
	a.photoDisplay.SetPhoto(v.Photo)

	setEnabled(a.listenBtn, v.CanListen)
	setEnabled(a.nextBtn, v.CanNext)
	setEnabled(a.translateBtn, v.CanTranslate)
	setEnabled(a.pickPhotoBtn, v.CanPickPhoto)
	setEnabled(a.translatePhotoBtn, v.CanTranslatePhoto)

	setVisible(a.listenBtn, v.ShowSpeak)
	setVisible(a.translateSection, v.ShowTranslate)
	setVisible(a.photoSection, v.ShowPhoto)
}

type disableable interface {
	Enable()
	Disable()
}

func setEnabled(w disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

func setVisible(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}

// background runs a session request off the UI goroutine
func (a *Application) background(name string, fn func(ctx context.Context) error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		err := fn(a.ctx)
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, session.ErrClosed) {
			return
		}
		a.logger.Warn(name+" failed", zap.Error(err))
		fyne.Do(func() { a.showError(err) })
	}()
}

func (a *Application) onLanguageSelected(label string) {
	lang, err := languages.Lookup(label)
	if err != nil {
		a.showError(err)
		return
	}
	a.background("Vocabulary fetch", func(ctx context.Context) error {
		_, err := a.session.SelectLanguage(ctx, lang)
		return err
	})
}

func (a *Application) onNext() {
	a.session.Next()
}

func (a *Application) onListen() {
	if err := a.session.SpeakCurrent(); err != nil && !errors.Is(err, session.ErrEmptyInput) {
		a.showError(err)
	}
}

func (a *Application) onTranslate() {
	if !a.session.CanTranslate() {
		return
	}
	a.inputEntry.Remember(a.session.State().Input)
	a.background("Translation", func(ctx context.Context) error {
		_, err := a.session.TranslateInput(ctx)
		return err
	})
}

func (a *Application) onPickPhoto() {
	a.background("Photo pick", func(ctx context.Context) error {
		_, err := a.session.PickPhoto(ctx)
		return err
	})
}

func (a *Application) onTranslatePhoto() {
	a.background("Photo translation", func(ctx context.Context) error {
		_, err := a.session.TranslatePhoto(ctx)
		return err
	})
}

func (a *Application) showError(err error) {
	dialog.ShowError(err, a.window)
	a.statusLabel.SetText("Error: " + err.Error())
}
