package processor

import (
	"context"
	"fmt"

	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/phonetic"
)

// Pronounce prints the pronunciation of word in the --to language
func (p *Processor) Pronounce(ctx context.Context, word string) error {
	lang, err := targetLanguage(p.flags.TargetLanguage)
	if err != nil {
		return err
	}

	pronunciation, err := p.pronunciation(ctx, word, lang)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "%s (%s):\n%s\n", word, lang.Label, pronunciation)
	return nil
}

func (p *Processor) pronunciation(ctx context.Context, word string, lang languages.Language) (string, error) {
	completer, err := p.chatCompleter(ctx)
	if err != nil {
		return "", err
	}
	return phonetic.NewFetcher(completer).Fetch(ctx, word, lang)
}
