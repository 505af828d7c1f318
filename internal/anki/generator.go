package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/polyglot/internal/journal"
	"codeberg.org/snonux/polyglot/internal/session"
)

// Card represents a single Anki flashcard
type Card struct {
	Front    string // Phrase as it was asked
	Back     string // Its translation
	Language string // Target language label, also the note tag
	Notes    string // Optional notes
}

// key identifies a card regardless of case, later duplicates are dropped
func (c Card) key() string {
	return strings.ToLower(c.Language + "|" + strings.TrimSpace(c.Front))
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // .csv writes CSV, anything else an .apkg
	DeckName       string // Deck name inside the .apkg
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "polyglot.apkg",
		DeckName:       "Polyglot Vocabulary",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
	seen    map[string]bool
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
		seen:    make(map[string]bool),
	}
}

// AddCard adds a card unless it is incomplete or a duplicate
func (g *Generator) AddCard(card Card) bool {
	card.Front = strings.TrimSpace(card.Front)
	card.Back = strings.TrimSpace(card.Back)
	if card.Front == "" || card.Back == "" {
		return false
	}
	if g.seen[card.key()] {
		return false
	}
	g.seen[card.key()] = true
	g.cards = append(g.cards, card)
	return true
}

// AddJournal adds a card for every successful translation in entries and
// returns how many were added
func (g *Generator) AddJournal(entries []journal.Entry) int {
	added := 0
	for _, card := range CardsFromJournal(entries) {
		if g.AddCard(card) {
			added++
		}
	}
	return added
}

// Cards returns the collected cards
func (g *Generator) Cards() []Card {
	return g.cards
}

// CardsFromJournal converts successful translation requests into cards
func CardsFromJournal(entries []journal.Entry) []Card {
	kind := session.KindTranslation.String()

	var cards []Card
	for _, e := range entries {
		if e.Kind != kind || e.Failed {
			continue
		}
		card := Card{Front: e.Input, Back: e.Output, Language: e.Language}
		if !e.CreatedAt.IsZero() {
			card.Notes = "Looked up " + e.CreatedAt.Local().Format("2006-01-02")
		}
		cards = append(cards, card)
	}
	return cards
}

// Generate writes the cards in the format matching the output extension
func (g *Generator) Generate() error {
	if strings.EqualFold(filepath.Ext(g.options.OutputPath), ".csv") {
		return g.GenerateCSV()
	}
	return g.GenerateAPKG(g.options.OutputPath, g.options.DeckName)
}

// GenerateCSV creates a CSV file for Anki import
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		headers := []string{"Front", "Back", "Language", "Notes"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{card.Front, card.Back, card.Language, card.Notes}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// GenerateAPKG creates a proper .apkg file for Anki import
func (g *Generator) GenerateAPKG(outputPath, deckName string) error {
	apkgGen := NewAPKGGenerator(deckName)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns the number of cards, in total and per language
func (g *Generator) Stats() (total int, perLanguage map[string]int) {
	perLanguage = make(map[string]int)
	for _, card := range g.cards {
		perLanguage[card.Language]++
	}
	return len(g.cards), perLanguage
}
