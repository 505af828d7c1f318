package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"codeberg.org/snonux/polyglot/internal/chat"
	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/ocr"
	"codeberg.org/snonux/polyglot/internal/photo"
	"codeberg.org/snonux/polyglot/internal/translation"
)

var (
	// ErrEmptyInput is returned when there is nothing to translate or speak;
	// no request is sent
	ErrEmptyInput = errors.New("input is empty")

	// ErrUnsupported is returned when the session lacks the capability
	ErrUnsupported = errors.New("not supported by this session")

	// ErrNoPhoto is returned by TranslatePhoto before a photo was picked
	ErrNoPhoto = errors.New("no photo selected")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("session closed")
)

// DefaultSpeechTimeout bounds a single fire-and-forget Speak
const DefaultSpeechTimeout = 30 * time.Second

// Speaker says a word in the given locale
type Speaker interface {
	Speak(ctx context.Context, text, locale string) error
}

// Config holds the optional collaborators and settings of a session
type Config struct {
	ID       string             // Session ID, a new UUID when empty
	Language languages.Language // Initial language, languages.Default() when zero

	WordCount int // Words per vocabulary fetch, translation.DefaultWordCount when 0

	Speaker              Speaker           // Enables Speak
	Picker               photo.Picker      // Enables PickPhoto and photo translation
	Extractor            ocr.TextExtractor // Enables photo translation, ocr.Placeholder by default
	Recorder             Recorder          // Receives completed requests
	DisableFreeTranslate bool              // Switches off Translate and TranslateInput
	SpeechTimeout        time.Duration     // Bound for each Speak, DefaultSpeechTimeout when 0
	Logger               *zap.Logger

	// ReleasePhoto is called with a photo the session no longer holds, after
	// it was replaced or the session closed. Front-ends that store uploads
	// set it to delete them; photos picked from the user's disk are left alone.
	ReleasePhoto func(photo.Ref)
}

// inflight is the latest request of one kind
type inflight struct {
	gen    uint64
	cancel context.CancelFunc
}

// Controller is one learning session. It is safe for concurrent use; no
// lock is held while a request is on the wire.
type Controller struct {
	id         string
	translator *translation.Translator
	wordCount  int
	speaker    Speaker
	picker     photo.Picker
	extractor  ocr.TextExtractor
	recorder   Recorder
	release    func(photo.Ref)
	caps       Capabilities
	speechTO   time.Duration
	logger     *zap.Logger

	mu        sync.Mutex
	state     State
	flights   [numKinds]inflight
	listeners map[int]func(State)
	nextID    int
	closed    bool
}

// New creates a session talking to completer
func New(completer chat.Completer, config *Config) *Controller {
	if config == nil {
		config = &Config{}
	}

	c := &Controller{
		id:         config.ID,
		translator: translation.NewTranslator(completer),
		wordCount:  config.WordCount,
		speaker:    config.Speaker,
		picker:     config.Picker,
		extractor:  config.Extractor,
		recorder:   config.Recorder,
		release:    config.ReleasePhoto,
		speechTO:   config.SpeechTimeout,
		logger:     config.Logger,
		listeners:  make(map[int]func(State)),
	}

	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.wordCount <= 0 {
		c.wordCount = translation.DefaultWordCount
	}
	if c.speechTO <= 0 {
		c.speechTO = DefaultSpeechTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("session", c.id))

	if c.picker != nil && c.extractor == nil {
		c.extractor = ocr.Placeholder{}
	}
	c.caps = Capabilities{
		Speak:          c.speaker != nil,
		PhotoTranslate: c.extractor != nil,
		FreeTranslate:  !config.DisableFreeTranslate,
	}

	c.state.Language = config.Language
	if c.state.Language == (languages.Language{}) {
		c.state.Language = languages.Default()
	}

	return c
}

// ID returns the session ID
func (c *Controller) ID() string {
	return c.id
}

// Capabilities reports what this session can do
func (c *Controller) Capabilities() Capabilities {
	return c.caps
}

// State returns a snapshot of the session
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to receive a snapshot after every change. Snapshots
// may arrive out of order from concurrent requests; compare Version.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// SelectLanguage switches the target language and fetches its vocabulary
func (c *Controller) SelectLanguage(ctx context.Context, lang languages.Language) (Result[[]string], error) {
	return c.FetchVocabulary(ctx, lang)
}

// FetchVocabulary replaces the word list with a fresh one for lang. A fetch
// still in flight is canceled and its result discarded.
func (c *Controller) FetchVocabulary(ctx context.Context, lang languages.Language) (Result[[]string], error) {
	if !languages.IsSupported(lang) {
		return Result[[]string]{}, fmt.Errorf("unsupported language: %q", lang.Label)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result[[]string]{}, ErrClosed
	}
	c.state.Language = lang
	c.state.Words = nil
	c.state.Index = 0
	c.state.Loading = true
	c.state.VocabularyStatus = StatusLoading
	reqCtx, gen := c.begin(ctx, KindVocabulary)
	c.commitAndUnlock()
	c.logger.Debug("Fetching vocabulary", zap.String("language", lang.Label), zap.Uint64("gen", gen))

	words, err := c.translator.FetchVocabulary(reqCtx, lang, c.wordCount)

	c.mu.Lock()
	if !c.finish(KindVocabulary, gen) {
		c.mu.Unlock()
		c.logger.Debug("Discarding superseded vocabulary", zap.String("language", lang.Label))
		return staleResult[[]string](KindVocabulary), nil
	}

	result := Result[[]string]{}
	entry := Entry{Kind: KindVocabulary, Language: lang, Input: lang.Label}
	if err != nil {
		result.Failure = classify(KindVocabulary, err)
		c.state.Words = []string{result.Failure.Marker()}
		c.state.VocabularyStatus = StatusFailed
		c.state.LastFailure = result.Failure
		entry.Failed, entry.Reason = true, result.Failure.Reason.String()
		c.logger.Warn("Vocabulary fetch failed", zap.String("language", lang.Label), zap.Error(err))
	} else {
		result.Value = words
		c.state.Words = words
		c.state.VocabularyStatus = StatusReady
		entry.Output = strings.Join(words, "\n")
	}
	c.state.Loading = false
	c.commitAndUnlock()

	c.record(ctx, entry)
	return cloneWords(result), nil
}

// Next advances to the following word. At the last word it does nothing.
func (c *Controller) Next() bool {
	c.mu.Lock()
	if c.state.Index >= len(c.state.Words)-1 {
		c.mu.Unlock()
		return false
	}
	c.state.Index++
	c.commitAndUnlock()
	return true
}

// SetInput stores the free-text input
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	if c.state.Input == text {
		c.mu.Unlock()
		return
	}
	c.state.Input = text
	c.commitAndUnlock()
}

// CanTranslate reports whether the translate action should be enabled
func (c *Controller) CanTranslate() bool {
	if !c.caps.FreeTranslate {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.TrimSpace(c.state.Input) != ""
}

// TranslateInput translates the current input
func (c *Controller) TranslateInput(ctx context.Context) (Result[string], error) {
	c.mu.Lock()
	input := c.state.Input
	c.mu.Unlock()
	return c.Translate(ctx, input)
}

// Translate translates text into the session language. Empty text is
// rejected without a request.
func (c *Controller) Translate(ctx context.Context, text string) (Result[string], error) {
	if !c.caps.FreeTranslate {
		return Result[string]{}, fmt.Errorf("free-text translation: %w", ErrUnsupported)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result[string]{}, ErrEmptyInput
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result[string]{}, ErrClosed
	}
	lang := c.state.Language
	c.state.TranslationStatus = StatusLoading
	reqCtx, gen := c.begin(ctx, KindTranslation)
	c.commitAndUnlock()

	translated, err := c.translator.Translate(reqCtx, text, lang)

	c.mu.Lock()
	if !c.finish(KindTranslation, gen) {
		c.mu.Unlock()
		return staleResult[string](KindTranslation), nil
	}

	result := Result[string]{}
	entry := Entry{Kind: KindTranslation, Language: lang, Input: text}
	if err != nil {
		result.Failure = classify(KindTranslation, err)
		c.state.Translation = result.Failure.Marker()
		c.state.TranslationStatus = StatusFailed
		c.state.LastFailure = result.Failure
		entry.Failed, entry.Reason = true, result.Failure.Reason.String()
		c.logger.Warn("Translation failed", zap.String("language", lang.Label), zap.Error(err))
	} else {
		result.Value = translated
		c.state.Translation = translated
		c.state.TranslationStatus = StatusReady
		entry.Output = translated
	}
	c.commitAndUnlock()

	c.record(ctx, entry)
	return result, nil
}

// Speak says word in the session language on its own goroutine. Playback
// failures are only logged.
func (c *Controller) Speak(word string) error {
	if c.speaker == nil {
		return fmt.Errorf("speech: %w", ErrUnsupported)
	}
	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyInput
	}

	c.mu.Lock()
	locale := c.state.Language.Code
	c.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.speechTO)
		defer cancel()

		if err := c.speaker.Speak(ctx, word, locale); err != nil {
			c.logger.Warn("Speech failed", zap.String("word", word), zap.String("locale", locale), zap.Error(err))
		}
	}()
	return nil
}

// SpeakCurrent speaks the current word
func (c *Controller) SpeakCurrent() error {
	word, ok := c.State().CurrentWord()
	if !ok {
		return ErrEmptyInput
	}
	return c.Speak(word)
}

// PickPhoto asks the picker for a photo. A canceled pick leaves the state
// untouched and reports false.
func (c *Controller) PickPhoto(ctx context.Context) (bool, error) {
	if c.picker == nil {
		return false, fmt.Errorf("photo picker: %w", ErrUnsupported)
	}

	ref, err := c.picker.Pick(ctx)
	if errors.Is(err, photo.ErrCanceled) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to pick photo: %w", err)
	}

	return true, c.SetPhoto(ref)
}

// SetPhoto stores a photo obtained outside the picker, such as an upload
func (c *Controller) SetPhoto(ref photo.Ref) error {
	if !c.caps.PhotoTranslate {
		return fmt.Errorf("photo translation: %w", ErrUnsupported)
	}
	if ref.IsZero() {
		return ErrNoPhoto
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.releasePhoto(ref)
		return ErrClosed
	}
	previous := c.state.Photo
	c.state.Photo = ref
	c.state.PhotoText = ""
	c.state.PhotoTranslation = ""
	c.state.PhotoStatus = StatusIdle
	c.commitAndUnlock()

	if previous != ref {
		c.releasePhoto(previous)
	}
	return nil
}

func (c *Controller) releasePhoto(ref photo.Ref) {
	if c.release != nil && !ref.IsZero() {
		c.release(ref)
	}
}

// TranslatePhoto extracts the text of the stored photo and translates it
func (c *Controller) TranslatePhoto(ctx context.Context) (Result[string], error) {
	if !c.caps.PhotoTranslate {
		return Result[string]{}, fmt.Errorf("photo translation: %w", ErrUnsupported)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Result[string]{}, ErrClosed
	}
	ref := c.state.Photo
	if ref.IsZero() {
		c.mu.Unlock()
		return Result[string]{}, ErrNoPhoto
	}
	lang := c.state.Language
	c.state.PhotoStatus = StatusLoading
	reqCtx, gen := c.begin(ctx, KindPhoto)
	c.commitAndUnlock()

	text, failure := c.extract(reqCtx, ref)
	var translated string
	if failure == nil {
		var err error
		translated, err = c.translator.Translate(reqCtx, text, lang)
		if err != nil {
			failure = classify(KindPhoto, err)
		}
	}

	c.mu.Lock()
	if !c.finish(KindPhoto, gen) {
		c.mu.Unlock()
		return staleResult[string](KindPhoto), nil
	}

	result := Result[string]{Failure: failure}
	entry := Entry{Kind: KindPhoto, Language: lang, Input: ref.Name()}
	c.state.PhotoText = text
	if failure != nil {
		c.state.PhotoTranslation = failure.Marker()
		c.state.PhotoStatus = StatusFailed
		c.state.LastFailure = failure
		entry.Failed, entry.Reason = true, failure.Reason.String()
		c.logger.Warn("Photo translation failed", zap.String("photo", ref.Name()), zap.Error(failure))
	} else {
		result.Value = translated
		c.state.PhotoTranslation = translated
		c.state.PhotoStatus = StatusReady
		entry.Output = translated
	}
	c.commitAndUnlock()

	c.record(ctx, entry)
	return result, nil
}

// extract runs the text extractor and classifies its failures
func (c *Controller) extract(ctx context.Context, ref photo.Ref) (string, *RequestFailure) {
	text, err := c.extractor.Extract(ctx, ref)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", &RequestFailure{Kind: KindPhoto, Reason: ReasonCanceled, Err: err}
		}
		return "", &RequestFailure{Kind: KindPhoto, Reason: ReasonExtraction, Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &RequestFailure{Kind: KindPhoto, Reason: ReasonEmpty, Err: errors.New("no text found in photo")}
	}
	return text, nil
}

// Close cancels every request in flight and releases the photo. Later
// requests fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	held := c.state.Photo
	defer c.releasePhoto(held)
	defer c.mu.Unlock()

	c.closed = true
	for kind := range c.flights {
		if c.flights[kind].cancel != nil {
			c.flights[kind].cancel()
			c.flights[kind].cancel = nil
		}
		// Results still on the wire must not be applied
		c.flights[kind].gen++
	}
	c.listeners = make(map[int]func(State))
}

// begin starts a request of kind, canceling the one it supersedes. Must be
// called with mu held.
func (c *Controller) begin(ctx context.Context, kind Kind) (context.Context, uint64) {
	f := &c.flights[kind]
	if f.cancel != nil {
		f.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	f.gen++
	f.cancel = cancel
	return reqCtx, f.gen
}

// finish reports whether gen is still the latest request of kind and
// releases its context. Must be called with mu held.
func (c *Controller) finish(kind Kind, gen uint64) bool {
	f := &c.flights[kind]
	if f.gen != gen {
		return false
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	return true
}

// commitAndUnlock bumps the version, unlocks mu and notifies listeners with the new
// snapshot. Must be called with mu held.
func (c *Controller) commitAndUnlock() {
	c.state.Version++
	snapshot := c.state.clone()
	listeners := make([]func(State), 0, len(c.listeners))
	for _, fn := range c.listeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// record hands the entry to the recorder; errors are logged
func (c *Controller) record(ctx context.Context, entry Entry) {
	if c.recorder == nil {
		return
	}
	entry.SessionID = c.id
	entry.Time = time.Now()

	if err := c.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		c.logger.Warn("Failed to record request", zap.String("kind", entry.Kind.String()), zap.Error(err))
	}
}

func staleResult[T any](kind Kind) Result[T] {
	return Result[T]{
		Failure: &RequestFailure{Kind: kind, Reason: ReasonCanceled, Err: ErrSuperseded},
		Stale:   true,
	}
}

// cloneWords keeps the caller's slice separate from the state's
func cloneWords(r Result[[]string]) Result[[]string] {
	if r.Value != nil {
		words := make([]string, len(r.Value))
		copy(words, r.Value)
		r.Value = words
	}
	return r
}
