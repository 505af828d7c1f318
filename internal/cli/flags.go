package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Verbose    bool
	ListModels bool
	WordCount  int

	// Chat backend flags
	ChatBackend string
	ChatURL     string
	ChatModel   string
	ChatTimeout time.Duration
	Breaker     bool

	// Speech flags
	SpeechProvider string
	SpeechVoice    string

	// Journal flags
	JournalDriver string
	JournalDSN    string
	NoJournal     bool

	// Subcommand flags
	TargetLanguage  string
	BatchFile       string
	OutputFile      string
	HistoryLimit    int
	HistoryLanguage string
	ExportFile      string
	AnkiFile        string
	DeckName        string
	Archive         bool
	ServerAddr      string
	BotToken        string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		WordCount:      10,
		ChatBackend:    "hub",
		SpeechProvider: "openai",
		SpeechVoice:    "alloy",
		JournalDriver:  "sqlite3",
		HistoryLimit:   20,
		DeckName:       "Polyglot Vocabulary",
		ServerAddr:     ":8080",
	}
}
