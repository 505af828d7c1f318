package processor

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"codeberg.org/snonux/polyglot/internal/bot"
	"codeberg.org/snonux/polyglot/internal/gui"
	"codeberg.org/snonux/polyglot/internal/photo"
	"codeberg.org/snonux/polyglot/internal/server"
)

// Serve runs the HTTP API until ctx is canceled
func (p *Processor) Serve(ctx context.Context) error {
	p.logger = p.buildLogger(true)
	defer p.logger.Sync()

	factory, err := p.sessionFactory(ctx, false)
	if err != nil {
		return err
	}

	config := server.DefaultConfig()
	if addr := viper.GetString("server.addr"); addr != "" {
		config.Addr = addr
	}
	if viper.IsSet("server.allowed_origins") {
		config.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}
	if viper.IsSet("server.session_ttl") {
		config.SessionTTL = viper.GetDuration("server.session_ttl")
	}
	if viper.IsSet("server.max_photo_bytes") {
		config.MaxPhotoBytes = viper.GetInt64("server.max_photo_bytes")
	}
	config.PhotoDir = viper.GetString("server.photo_dir")

	fmt.Fprintf(p.out, "Serving on %s\n", config.Addr)
	return server.New(factory, config, p.logger).ListenAndServe(ctx)
}

// RunBot runs the Telegram bot until ctx is canceled
func (p *Processor) RunBot(ctx context.Context) error {
	p.logger = p.buildLogger(true)
	defer p.logger.Sync()

	factory, err := p.sessionFactory(ctx, false)
	if err != nil {
		return err
	}

	options := photo.DefaultStoreOptions()
	if dir := viper.GetString("bot.photo_dir"); dir != "" {
		options.Dir = dir
	}

	b, err := bot.New(&bot.Config{
		Token:       viper.GetString("bot.token"),
		PollTimeout: viper.GetDuration("bot.poll_timeout"),
		SessionTTL:  viper.GetDuration("bot.session_ttl"),
	}, factory, photo.NewStore(options), p.logger)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}

// RunGUI starts the desktop application and blocks until its window closes
func (p *Processor) RunGUI(ctx context.Context) error {
	completer, err := p.chatCompleter(ctx)
	if err != nil {
		return err
	}

	app := gui.New(&gui.Config{
		Completer:     completer,
		Speaker:       p.speechSpeaker(),
		Recorder:      p.recorder(ctx),
		WordCount:     viper.GetInt("session.word_count"),
		DisablePhoto:  viper.GetBool("gui.disable_photo"),
		DisableFreeTx: viper.GetBool("gui.disable_translate"),
		Logger:        p.Logger(),
	})
	app.Run()
	return nil
}
