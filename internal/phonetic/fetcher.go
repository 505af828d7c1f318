package phonetic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codeberg.org/snonux/polyglot/internal/chat"
	"codeberg.org/snonux/polyglot/internal/languages"
)

// ErrEmptyWord is returned for blank input; no request is sent
var ErrEmptyWord = errors.New("word is empty")

const systemPrompt = "You are a language expert helping language learners understand pronunciation. " +
	"Provide detailed phonetic information using the International Phonetic Alphabet (IPA). " +
	"For each IPA symbol used, give concrete examples of how it sounds using familiar English words or sounds when possible."

// Fetcher handles fetching phonetic information for words
type Fetcher struct {
	completer chat.Completer
}

// NewFetcher creates a new phonetic information fetcher
func NewFetcher(completer chat.Completer) *Fetcher {
	return &Fetcher{completer: completer}
}

// Prompt returns the messages asking how word is pronounced in lang
func Prompt(word string, lang languages.Language) []chat.Message {
	return []chat.Message{
		{Role: chat.RoleSystem, Content: systemPrompt},
		{Role: chat.RoleUser, Content: fmt.Sprintf(`For the %s word '%s':
1. Provide the complete IPA transcription
2. Break down EACH phonetic symbol used in the transcription
3. For EVERY symbol, explain how it's pronounced with examples:
   - If similar to an English sound, give English word examples
   - If not in English, describe tongue/mouth position or compare to similar sounds
   - Include stress marks or tones and explain them

Example format:
Word: [IPA transcription]
• /p/ - like 'p' in English 'pot'
• /a/ - like 'a' in 'father'`, lang.Label, word)},
	}
}

// Fetch returns the phonetic explanation of word in lang
func (f *Fetcher) Fetch(ctx context.Context, word string, lang languages.Language) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", ErrEmptyWord
	}

	reply, err := f.completer.Complete(ctx, Prompt(word, lang))
	if err != nil {
		return "", fmt.Errorf("failed to fetch pronunciation of '%s': %w", word, err)
	}

	info := strings.TrimSpace(reply)
	if info == "" {
		return "", fmt.Errorf("no pronunciation for '%s': %w", word, chat.ErrMalformedResponse)
	}
	return info, nil
}
