package anki

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"codeberg.org/snonux/polyglot/internal/journal"
)

func TestDefaultGeneratorOptions(t *testing.T) {
	opts := DefaultGeneratorOptions()

	if opts.OutputPath != "polyglot.apkg" {
		t.Errorf("Expected OutputPath 'polyglot.apkg', got '%s'", opts.OutputPath)
	}
	if opts.DeckName != "Polyglot Vocabulary" {
		t.Errorf("Expected DeckName 'Polyglot Vocabulary', got '%s'", opts.DeckName)
	}
	if !opts.IncludeHeaders {
		t.Error("Expected IncludeHeaders to be true")
	}
}

func TestNewGenerator(t *testing.T) {
	gen := NewGenerator(nil)
	if gen.options == nil {
		t.Error("Expected default options when nil is passed")
	}
	if len(gen.Cards()) != 0 {
		t.Errorf("Expected empty cards, got %d", len(gen.Cards()))
	}
}

func TestAddCard(t *testing.T) {
	tests := []struct {
		name string
		card Card
		want bool
	}{
		{"complete", Card{Front: "hello", Back: "hola", Language: "Spanish"}, true},
		{"duplicate ignoring case and space", Card{Front: " Hello ", Back: "¡hola!", Language: "Spanish"}, false},
		{"same phrase other language", Card{Front: "hello", Back: "bonjour", Language: "French"}, true},
		{"no back", Card{Front: "cat", Language: "German"}, false},
		{"no front", Card{Back: "Katze", Language: "German"}, false},
	}

	gen := NewGenerator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gen.AddCard(tt.card); got != tt.want {
				t.Errorf("AddCard() = %v, want %v", got, tt.want)
			}
		})
	}

	if len(gen.Cards()) != 2 {
		t.Errorf("Expected 2 cards, got %d", len(gen.Cards()))
	}
}

func TestCardsFromJournal(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	entries := []journal.Entry{
		{Kind: "translation", Language: "German", Input: "cat", Output: "Katze", CreatedAt: at},
		{Kind: "translation", Language: "German", Input: "dog", Failed: true, Reason: "transport"},
		{Kind: "vocabulary", Language: "French", Input: "French", Output: "chat\nchien"},
		{Kind: "photo", Language: "Spanish", Input: "menu.png", Output: "menú"},
		{Kind: "translation", Language: "Japanese", Input: "thanks", Output: "ありがとう"},
	}

	want := []Card{
		{Front: "cat", Back: "Katze", Language: "German", Notes: "Looked up 2026-03-14"},
		{Front: "thanks", Back: "ありがとう", Language: "Japanese"},
	}
	if got := CardsFromJournal(entries); !reflect.DeepEqual(got, want) {
		t.Errorf("CardsFromJournal() = %+v, want %+v", got, want)
	}

	gen := NewGenerator(nil)
	if added := gen.AddJournal(append(entries, entries...)); added != 2 {
		t.Errorf("AddJournal() = %d, want 2", added)
	}
}

func TestGenerateCSV(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "test.csv")

	gen := NewGenerator(&GeneratorOptions{
		OutputPath:     outputPath,
		IncludeHeaders: true,
	})
	gen.AddCard(Card{Front: "apple", Back: "manzana", Language: "Spanish", Notes: "A fruit"})
	gen.AddCard(Card{Front: "cat, small", Back: "chaton", Language: "French"})

	if err := gen.Generate(); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	records := readCSV(t, outputPath)
	want := [][]string{
		{"Front", "Back", "Language", "Notes"},
		{"apple", "manzana", "Spanish", "A fruit"},
		{"cat, small", "chaton", "French", ""},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("CSV = %v, want %v", records, want)
	}
}

func TestGenerateCSVWithoutHeaders(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "test.csv")

	gen := NewGenerator(&GeneratorOptions{OutputPath: outputPath})
	gen.AddCard(Card{Front: "bread", Back: "Brot", Language: "German"})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV() error = %v", err)
	}

	records := readCSV(t, outputPath)
	if len(records) != 1 || records[0][0] != "bread" {
		t.Errorf("Expected a single data row, got %v", records)
	}
}

func TestGenerateCSV_BadPath(t *testing.T) {
	gen := NewGenerator(&GeneratorOptions{OutputPath: "/nonexistent/dir/test.csv"})
	if err := gen.GenerateCSV(); err == nil {
		t.Error("Expected error for unwritable path")
	}
}

func TestStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCard(Card{Front: "a", Back: "b", Language: "German"})
	gen.AddCard(Card{Front: "c", Back: "d", Language: "German"})
	gen.AddCard(Card{Front: "e", Back: "f", Language: "Chinese"})

	total, perLanguage := gen.Stats()
	if total != 3 {
		t.Errorf("Expected 3 cards, got %d", total)
	}
	if want := map[string]int{"German": 2, "Chinese": 1}; !reflect.DeepEqual(perLanguage, want) {
		t.Errorf("perLanguage = %v, want %v", perLanguage, want)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	return records
}
