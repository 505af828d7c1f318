package translation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/polyglot/internal/chat"
	"codeberg.org/snonux/polyglot/internal/languages"
)

// DefaultWordCount is how many words a vocabulary fetch asks for
const DefaultWordCount = 10

const (
	vocabularySystemPrompt  = "You are a helpful assistant for language learning. Provide a list of basic words in the selected language."
	translationSystemPrompt = "You are a helpful assistant. Translate the given word."
)

// Translator fetches vocabulary lists and translations from a chat backend
type Translator struct {
	completer chat.Completer
}

// NewTranslator creates a new translator instance
func NewTranslator(completer chat.Completer) *Translator {
	return &Translator{completer: completer}
}

// VocabularyPrompt returns the messages asking for n basic words in lang
func VocabularyPrompt(lang languages.Language, n int) []chat.Message {
	if n <= 0 {
		n = DefaultWordCount
	}
	return []chat.Message{
		{Role: chat.RoleSystem, Content: vocabularySystemPrompt},
		{Role: chat.RoleUser, Content: fmt.Sprintf("Give me a list of %d basic words in %s.", n, lang.Label)},
	}
}

// TranslationPrompt returns the messages asking to translate text into lang
func TranslationPrompt(text string, lang languages.Language) []chat.Message {
	return []chat.Message{
		{Role: chat.RoleSystem, Content: translationSystemPrompt},
		{Role: chat.RoleUser, Content: fmt.Sprintf("Translate the word \"%s\" to %s.", text, lang.Label)},
	}
}

// FetchVocabulary asks for n basic words in lang and returns them in reply order
func (t *Translator) FetchVocabulary(ctx context.Context, lang languages.Language, n int) ([]string, error) {
	reply, err := t.completer.Complete(ctx, VocabularyPrompt(lang, n))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s vocabulary: %w", lang.Label, err)
	}
	return ParseWordList(reply), nil
}

// Translate translates text into lang and returns the trimmed reply
func (t *Translator) Translate(ctx context.Context, text string, lang languages.Language) (string, error) {
	reply, err := t.completer.Complete(ctx, TranslationPrompt(text, lang))
	if err != nil {
		return "", fmt.Errorf("failed to translate into %s: %w", lang.Label, err)
	}
	return strings.TrimSpace(reply), nil
}

// ParseWordList splits a reply into lines, trims each and drops empty ones
func ParseWordList(reply string) []string {
	words := []string{}
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			words = append(words, line)
		}
	}
	return words
}

// Pair is one translated phrase
type Pair struct {
	Text        string
	Translation string
}

// SaveTranslations writes "text = translation" lines to outputFile
func SaveTranslations(outputFile string, pairs []Pair) error {
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "%s = %s\n", p.Text, p.Translation)
	}

	if err := os.WriteFile(outputFile, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write translation file: %w", err)
	}

	return nil
}
