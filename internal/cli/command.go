package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/polyglot/internal"
	"codeberg.org/snonux/polyglot/internal/chat"
)

// Runner executes the work behind each command
type Runner interface {
	RunGUI(ctx context.Context) error
	ListModels(ctx context.Context) error
	ListLanguages(ctx context.Context) error
	FetchWords(ctx context.Context, language string) error
	Translate(ctx context.Context, text string) error
	TranslateBatch(ctx context.Context) error
	Quiz(ctx context.Context, language string) error
	Pronounce(ctx context.Context, word string) error
	TranslatePhoto(ctx context.Context, path string) error
	Serve(ctx context.Context) error
	RunBot(ctx context.Context) error
	History(ctx context.Context) error
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, runner Runner) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "polyglot",
		Short: "Vocabulary trainer and translator",
		Long: `polyglot helps learning Spanish, French, German, Chinese and Japanese.

It fetches basic vocabulary from a chat-completion endpoint, steps through
the words, speaks them, and translates phrases and photos.

Examples:
  polyglot                              # Launch interactive GUI (default)
  polyglot words french                 # Print 10 basic French words
  polyglot translate --to de good night # Translate a phrase
  polyglot quiz ja                      # Step through Japanese words
  polyglot serve --addr :8080           # Run the HTTP API`,
		Args:          cobra.NoArgs,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.ListModels {
				return runner.ListModels(cmd.Context())
			}
			return runner.RunGUI(cmd.Context())
		},
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newGUICommand(runner),
		newLanguagesCommand(runner),
		newWordsCommand(runner),
		newTranslateCommand(flags, runner),
		newQuizCommand(runner),
		newPronounceCommand(flags, runner),
		newPhotoCommand(flags, runner),
		newServeCommand(flags, runner),
		newBotCommand(flags, runner),
		newHistoryCommand(flags, runner),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()

	// Global flags
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.polyglot.yaml)")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "Verbose logging")
	pf.IntVarP(&flags.WordCount, "words", "n", flags.WordCount, "Words per vocabulary fetch")

	// Chat backend flags
	pf.StringVar(&flags.ChatBackend, "chat-backend", flags.ChatBackend, "Chat backend: hub, openai or gemini")
	pf.StringVar(&flags.ChatURL, "chat-url", "", "Chat endpoint (default: the hosted hub for backend hub)")
	pf.StringVar(&flags.ChatModel, "chat-model", "", "Chat model (default depends on the backend)")
	pf.DurationVar(&flags.ChatTimeout, "chat-timeout", 0, "Per-request timeout, 0 for none")
	pf.BoolVar(&flags.Breaker, "breaker", false, "Fail fast after consecutive chat failures")

	// Speech flags
	pf.StringVar(&flags.SpeechProvider, "speech", flags.SpeechProvider, "Speech provider: openai, espeak or none")
	pf.StringVar(&flags.SpeechVoice, "voice", flags.SpeechVoice, "OpenAI voice: alloy, ash, coral, echo, fable, nova, onyx, sage, shimmer")

	// Journal flags
	pf.StringVar(&flags.JournalDriver, "journal-driver", flags.JournalDriver, "Journal database: sqlite3 or postgres")
	pf.StringVar(&flags.JournalDSN, "journal-dsn", "", "Journal data source (default: ~/.local/share/polyglot/journal.db)")
	pf.BoolVar(&flags.NoJournal, "no-journal", false, "Do not record requests")

	// Local flags
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")

	bindFlagsToViper(cmd)
}

// viperKeys maps persistent flags to their configuration keys
var viperKeys = map[string]string{
	"words":          "session.word_count",
	"chat-backend":   "chat.backend",
	"chat-url":       "chat.url",
	"chat-model":     "chat.model",
	"chat-timeout":   "chat.timeout",
	"breaker":        "chat.breaker",
	"speech":         "speech.provider",
	"voice":          "speech.voice",
	"journal-driver": "journal.driver",
	"journal-dsn":    "journal.dsn",
	"no-journal":     "journal.disabled",
}

func bindFlagsToViper(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	for name, key := range viperKeys {
		bindFlag(pf, key, name)
	}
}

// bindFlag binds a single flag of fs to a viper key
func bindFlag(fs *pflag.FlagSet, key, name string) {
	if flag := fs.Lookup(name); flag != nil {
		viper.BindPFlag(key, flag)
	}
}

func newGUICommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Launch the desktop application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.RunGUI(cmd.Context())
		},
	}
}

func newLanguagesCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.ListLanguages(cmd.Context())
		},
	}
}

func newWordsCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "words <language>",
		Short: "Fetch and print basic vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.FetchWords(cmd.Context(), args[0])
		},
	}
}

func newTranslateCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate a phrase, or every line of --batch",
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.BatchFile != "" {
				if len(args) > 0 {
					return errors.New("either text or --batch, not both")
				}
				return nil
			}
			if len(args) == 0 {
				return errors.New("nothing to translate")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.BatchFile != "" {
				return runner.TranslateBatch(cmd.Context())
			}
			return runner.Translate(cmd.Context(), strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&flags.TargetLanguage, "to", "t", "", "Target language (default: Spanish)")
	cmd.Flags().StringVarP(&flags.BatchFile, "batch", "b", "", "Translate phrases from file (one per line)")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Also write 'text = translation' lines to this file")
	return cmd
}

func newQuizCommand(runner Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "quiz [language]",
		Short: "Step through vocabulary interactively",
		Long: `Step through vocabulary interactively.

Keys: Enter or n for the next word, l to listen, p for pronunciation,
t <text> to translate, q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			language := ""
			if len(args) == 1 {
				language = args[0]
			}
			return runner.Quiz(cmd.Context(), language)
		},
	}
}

func newPronounceCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pronounce <word>",
		Short: "Show how a word is pronounced",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Pronounce(cmd.Context(), strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVarP(&flags.TargetLanguage, "to", "t", "", "Language of the word (default: Spanish)")
	return cmd
}

func newPhotoCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "photo <image>",
		Short: "Translate the text of a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.TranslatePhoto(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.TargetLanguage, "to", "t", "", "Target language (default: Spanish)")
	return cmd
}

func newServeCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&flags.ServerAddr, "addr", flags.ServerAddr, "Listen address")
	bindFlag(cmd.Flags(), "server.addr", "addr")
	return cmd
}

func newBotCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.RunBot(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&flags.BotToken, "token", "", "Telegram bot token")
	bindFlag(cmd.Flags(), "bot.token", "token")
	return cmd
}

func newHistoryCommand(flags *Flags, runner Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.History(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&flags.HistoryLimit, "limit", "l", flags.HistoryLimit, "Number of entries")
	cmd.Flags().StringVar(&flags.HistoryLanguage, "language", "", "Only entries for this language")
	cmd.Flags().StringVarP(&flags.ExportFile, "export", "e", "", "Export to an .xlsx file instead of printing")
	cmd.Flags().StringVar(&flags.AnkiFile, "anki", "", "Export translations as Anki cards (.apkg, or .csv)")
	cmd.Flags().StringVar(&flags.DeckName, "deck", flags.DeckName, "Deck name for --anki .apkg exports")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the SQLite journal aside and start a fresh one")
	return cmd
}

// InitConfig loads .env, then initializes viper configuration
func InitConfig(cfgFile string) {
	// A missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".polyglot" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".polyglot")
	}

	// Environment variables, e.g. POLYGLOT_CHAT_BACKEND for chat.backend
	viper.SetEnvPrefix("POLYGLOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("bot.token", "POLYGLOT_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("chat.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("chat.gemini_key")
}

// ChatConfig builds the chat backend configuration from viper
func ChatConfig() *chat.Config {
	config := chat.DefaultConfig()
	config.Backend = viper.GetString("chat.backend")
	if url := viper.GetString("chat.url"); url != "" {
		config.URL = url
	}
	if model := viper.GetString("chat.model"); model != "" {
		config.Model = model
	}
	config.Timeout = viper.GetDuration("chat.timeout")
	config.Breaker = viper.GetBool("chat.breaker")

	switch strings.ToLower(config.Backend) {
	case "openai":
		config.APIKey = GetOpenAIKey()
	case "gemini":
		config.APIKey = GetGeminiKey()
	}
	return config
}
