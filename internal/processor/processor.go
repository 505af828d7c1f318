package processor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/polyglot/internal/chat"
	"codeberg.org/snonux/polyglot/internal/cli"
	"codeberg.org/snonux/polyglot/internal/journal"
	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/ocr"
	"codeberg.org/snonux/polyglot/internal/session"
	"codeberg.org/snonux/polyglot/internal/speech"
)

// Processor runs the polyglot commands
type Processor struct {
	flags *cli.Flags
	in    io.Reader
	out   io.Writer
	errs  io.Writer

	logger    *zap.Logger
	completer chat.Completer
	speaker   session.Speaker
	journal   *journal.Store
	speakerOK bool // speaker has been resolved, it may still be nil
}

var _ cli.Runner = (*Processor)(nil)

// NewProcessor creates a new processor reading from stdin and printing to stdout
func NewProcessor(flags *cli.Flags) *Processor {
	return &Processor{
		flags: flags,
		in:    os.Stdin,
		out:   os.Stdout,
		errs:  os.Stderr,
	}
}

// Close releases the journal
func (p *Processor) Close() error {
	if p.journal == nil {
		return nil
	}
	err := p.journal.Close()
	p.journal = nil
	return err
}

// Logger returns the command logger, creating it on first use
func (p *Processor) Logger() *zap.Logger {
	if p.logger == nil {
		p.logger = p.buildLogger(false)
	}
	return p.logger
}

// buildLogger returns a production logger for long running services and a
// development logger otherwise; --verbose lowers either to debug
func (p *Processor) buildLogger(service bool) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)

	switch {
	case p.flags.Verbose:
		logger, err = zap.NewDevelopment()
	case service:
		logger, err = zap.NewProduction()
	default:
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		config.DisableStacktrace = true
		logger, err = config.Build()
	}
	if err != nil {
		fmt.Fprintf(p.errs, "Warning: Failed to create logger: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

// chatCompleter builds the chat backend from the configuration
func (p *Processor) chatCompleter(ctx context.Context) (chat.Completer, error) {
	if p.completer != nil {
		return p.completer, nil
	}

	config := cli.ChatConfig()
	config.Logger = p.Logger()
	completer, err := chat.NewCompleter(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat backend: %w", err)
	}
	p.completer = completer
	return completer, nil
}

// speechSpeaker builds the speaker; nil when speech is off or unavailable
func (p *Processor) speechSpeaker() session.Speaker {
	if p.speakerOK {
		return p.speaker
	}
	p.speakerOK = true

	config := speech.DefaultConfig()
	config.Logger = p.Logger()
	config.OpenAIKey = cli.GetOpenAIKey()
	if provider := viper.GetString("speech.provider"); provider != "" {
		config.Provider = provider
	}
	if voice := viper.GetString("speech.voice"); voice != "" {
		config.OpenAIVoice = voice
	}

	// Config file only settings
	if viper.IsSet("speech.model") {
		config.OpenAIModel = viper.GetString("speech.model")
	}
	if viper.IsSet("speech.speed") {
		config.OpenAISpeed = viper.GetFloat64("speech.speed")
	}
	if viper.IsSet("speech.instruction") {
		config.OpenAIInstruction = viper.GetString("speech.instruction")
	}
	if viper.IsSet("speech.fallback") {
		config.Fallback = viper.GetBool("speech.fallback")
	}

	speaker, err := speech.NewSpeaker(config)
	if err != nil {
		p.Logger().Warn("Speech disabled", zap.Error(err))
		return nil
	}
	if speaker == nil {
		return nil
	}
	p.speaker = speaker
	return p.speaker
}

// recorder opens the journal unless it is disabled. Journal problems never
// stop a command, they only switch recording off.
func (p *Processor) recorder(ctx context.Context) session.Recorder {
	if p.flags.NoJournal || viper.GetBool("journal.disabled") {
		return nil
	}
	store, err := p.openJournal(ctx)
	if err != nil {
		p.Logger().Warn("Journal disabled", zap.Error(err))
		return nil
	}
	return journal.NewRecorder(store)
}

func (p *Processor) openJournal(ctx context.Context) (*journal.Store, error) {
	if p.journal != nil {
		return p.journal, nil
	}
	store, err := journal.Open(ctx, viper.GetString("journal.driver"), viper.GetString("journal.dsn"), p.Logger())
	if err != nil {
		return nil, err
	}
	p.journal = store
	return store, nil
}

// sessionFactory returns a factory for sessions sharing the configured
// collaborators. Photo translation is always available through the
// placeholder text extractor.
func (p *Processor) sessionFactory(ctx context.Context, withSpeech bool) (func(config *session.Config) *session.Controller, error) {
	completer, err := p.chatCompleter(ctx)
	if err != nil {
		return nil, err
	}

	var speaker session.Speaker
	if withSpeech {
		speaker = p.speechSpeaker()
	}
	recorder := p.recorder(ctx)
	logger := p.Logger()
	wordCount := viper.GetInt("session.word_count")

	return func(config *session.Config) *session.Controller {
		if config == nil {
			config = &session.Config{}
		}
		if config.Speaker == nil {
			config.Speaker = speaker
		}
		if config.Extractor == nil {
			config.Extractor = ocr.Placeholder{}
		}
		if config.Recorder == nil {
			config.Recorder = recorder
		}
		if config.WordCount == 0 {
			config.WordCount = wordCount
		}
		if config.Logger == nil {
			config.Logger = logger
		}
		return session.New(completer, config)
	}, nil
}

// newSession creates a CLI session for lang
func (p *Processor) newSession(ctx context.Context, lang languages.Language, withSpeech bool) (*session.Controller, error) {
	factory, err := p.sessionFactory(ctx, withSpeech)
	if err != nil {
		return nil, err
	}
	return factory(&session.Config{Language: lang}), nil
}

// targetLanguage resolves name, the default language when empty
func targetLanguage(name string) (languages.Language, error) {
	if name == "" {
		return languages.Default(), nil
	}
	return languages.Lookup(name)
}
