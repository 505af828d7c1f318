package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/polyglot/internal/anki"
	"codeberg.org/snonux/polyglot/internal/archive"
	"codeberg.org/snonux/polyglot/internal/batch"
	"codeberg.org/snonux/polyglot/internal/cli"
	"codeberg.org/snonux/polyglot/internal/journal"
	"codeberg.org/snonux/polyglot/internal/languages"
	"codeberg.org/snonux/polyglot/internal/models"
	"codeberg.org/snonux/polyglot/internal/photo"
	"codeberg.org/snonux/polyglot/internal/session"
	"codeberg.org/snonux/polyglot/internal/translation"
)

// ListLanguages prints the supported languages
func (p *Processor) ListLanguages(ctx context.Context) error {
	fmt.Fprintln(p.out, "Supported languages:")
	def := languages.Default()
	for _, lang := range languages.All() {
		marker := ""
		if lang == def {
			marker = " (default)"
		}
		fmt.Fprintf(p.out, "  %-10s %s%s\n", lang.Label, lang.Code, marker)
	}
	return nil
}

// ListModels prints the OpenAI models available to the configured key
func (p *Processor) ListModels(ctx context.Context) error {
	lister := models.NewListerWithConfig(cli.GetOpenAIKey(), "", p.out)
	return lister.ListAvailableModels(ctx)
}

// FetchWords prints a fresh vocabulary list for the named language
func (p *Processor) FetchWords(ctx context.Context, name string) error {
	lang, err := targetLanguage(name)
	if err != nil {
		return err
	}

	s, err := p.newSession(ctx, lang, false)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprintf(p.out, "Fetching basic %s words...\n", lang.Label)
	result, err := s.FetchVocabulary(ctx, lang)
	if err != nil {
		return err
	}
	if !result.OK() {
		return fmt.Errorf("%s: %w", result.Failure.Marker(), result.Failure)
	}

	if len(result.Value) == 0 {
		fmt.Fprintln(p.out, "  No words received")
		return nil
	}
	for i, word := range result.Value {
		fmt.Fprintf(p.out, "  %2d. %s\n", i+1, word)
	}
	return nil
}

// Translate translates text into the --to language
func (p *Processor) Translate(ctx context.Context, text string) error {
	lang, err := targetLanguage(p.flags.TargetLanguage)
	if err != nil {
		return err
	}

	s, err := p.newSession(ctx, lang, false)
	if err != nil {
		return err
	}
	defer s.Close()

	translated, err := translate(ctx, s, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "%s: %s\n", lang.Label, translated)

	if p.flags.OutputFile != "" {
		pairs := []translation.Pair{{Text: strings.TrimSpace(text), Translation: translated}}
		if err := translation.SaveTranslations(p.flags.OutputFile, pairs); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Saved translation to %s\n", p.flags.OutputFile)
	}
	return nil
}

// TranslateBatch translates every phrase of the --batch file
func (p *Processor) TranslateBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}
	defaultLang, err := targetLanguage(p.flags.TargetLanguage)
	if err != nil {
		return err
	}

	factory, err := p.sessionFactory(ctx, false)
	if err != nil {
		return err
	}

	// Translate uses the session language, so each language gets its own session
	sessions := make(map[languages.Language]*session.Controller)
	defer func() {
		for _, s := range sessions {
			s.Close()
		}
	}()

	var (
		pairs      []translation.Pair
		errorCount int
	)

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		lang := defaultLang
		if entry.Language != "" {
			lang, err = languages.Lookup(entry.Language)
			if err != nil {
				fmt.Fprintf(p.errs, "Line %d: %v\n", entry.Line, err)
				errorCount++
				continue
			}
		}

		s, ok := sessions[lang]
		if !ok {
			s = factory(&session.Config{Language: lang})
			sessions[lang] = s
		}

		fmt.Fprintf(p.out, "\nTranslating %d/%d: %s\n", i+1, len(entries), entry.Text)
		translated, err := translate(ctx, s, entry.Text)
		if err != nil {
			fmt.Fprintf(p.errs, "Error translating '%s': %v\n", entry.Text, err)
			errorCount++
			continue
		}
		fmt.Fprintf(p.out, "  %s: %s\n", lang.Label, translated)
		pairs = append(pairs, translation.Pair{Text: entry.Text, Translation: translated})
	}

	// Print summary
	fmt.Fprintf(p.out, "\n=== Batch Translation Summary ===\n")
	fmt.Fprintf(p.out, "Total phrases: %d\n", len(entries))
	fmt.Fprintf(p.out, "Translated: %d\n", len(pairs))
	if errorCount > 0 {
		fmt.Fprintf(p.out, "Errors: %d\n", errorCount)
	}
	fmt.Fprintf(p.out, "=================================\n")

	if p.flags.OutputFile != "" {
		if err := translation.SaveTranslations(p.flags.OutputFile, pairs); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Saved %d translations to %s\n", len(pairs), p.flags.OutputFile)
	}

	if errorCount > 0 && len(pairs) == 0 {
		return errors.New("no phrase could be translated")
	}
	return nil
}

// TranslatePhoto translates the text extracted from the image at path
func (p *Processor) TranslatePhoto(ctx context.Context, path string) error {
	ref, err := photo.Validate(path)
	if err != nil {
		return err
	}
	lang, err := targetLanguage(p.flags.TargetLanguage)
	if err != nil {
		return err
	}

	s, err := p.newSession(ctx, lang, false)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SetPhoto(ref); err != nil {
		return err
	}
	result, err := s.TranslatePhoto(ctx)
	if err != nil {
		return err
	}

	state := s.State()
	fmt.Fprintf(p.out, "Photo: %s\n", ref.Name())
	if state.PhotoText != "" {
		fmt.Fprintf(p.out, "Text: %s\n", state.PhotoText)
	}
	if !result.OK() {
		return fmt.Errorf("%s: %w", result.Failure.Marker(), result.Failure)
	}
	fmt.Fprintf(p.out, "%s: %s\n", lang.Label, result.Value)
	return nil
}

// History prints or exports the request journal
func (p *Processor) History(ctx context.Context) error {
	if p.flags.Archive {
		return p.archiveJournal()
	}

	store, err := p.openJournal(ctx)
	if err != nil {
		return err
	}

	filter := journal.Filter{}
	if p.flags.HistoryLanguage != "" {
		lang, err := languages.Lookup(p.flags.HistoryLanguage)
		if err != nil {
			return err
		}
		filter.Language = lang.Label
	}

	entries, err := store.Recent(ctx, p.flags.HistoryLimit, filter)
	if err != nil {
		return err
	}

	exported := false
	if p.flags.ExportFile != "" {
		if err := journal.ExportXLSX(entries, p.flags.ExportFile); err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Exported %d entries to %s\n", len(entries), p.flags.ExportFile)
		exported = true
	}
	if p.flags.AnkiFile != "" {
		if err := p.exportAnki(entries); err != nil {
			return err
		}
		exported = true
	}
	if exported {
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(p.out, "No requests recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tKIND\tLANGUAGE\tINPUT\tOUTPUT")
	for _, e := range entries {
		output := e.Output
		if e.Failed {
			output = "FAILED (" + e.Reason + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format(time.DateTime), e.Kind, e.Language, oneLine(e.Input), oneLine(output))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	counts, err := store.CountByLanguage(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out)
	for _, c := range counts {
		fmt.Fprintf(p.out, "%s: %d requests, %d failed\n", c.Language, c.Requests, c.Failures)
	}
	return nil
}

// archiveJournal moves the SQLite journal aside; the next recorded request
// starts a fresh one
func (p *Processor) archiveJournal() error {
	driver := viper.GetString("journal.driver")
	if driver != "" && driver != journal.DriverSQLite {
		return fmt.Errorf("only the %s journal can be archived", journal.DriverSQLite)
	}
	dsn := viper.GetString("journal.dsn")
	if dsn == "" {
		dsn = journal.DefaultDSN()
	}

	// Release the database file before moving it
	if err := p.Close(); err != nil {
		return err
	}
	archived, err := archive.ArchiveFile(dsn, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "Journal archived to: %s\n", archived)
	return nil
}

// exportAnki writes the successful translations of entries as flashcards
func (p *Processor) exportAnki(entries []journal.Entry) error {
	gen := anki.NewGenerator(&anki.GeneratorOptions{
		OutputPath:     p.flags.AnkiFile,
		DeckName:       p.flags.DeckName,
		IncludeHeaders: true,
	})
	if gen.AddJournal(entries) == 0 {
		return errors.New("no translations to export")
	}
	if err := gen.Generate(); err != nil {
		return fmt.Errorf("failed to export Anki cards: %w", err)
	}

	total, perLanguage := gen.Stats()
	fmt.Fprintf(p.out, "Anki export created: %s (%d cards)\n", p.flags.AnkiFile, total)
	for _, lang := range languages.All() {
		if n := perLanguage[lang.Label]; n > 0 {
			fmt.Fprintf(p.out, "  %s: %d\n", lang.Label, n)
		}
	}
	return nil
}

// translate runs one translation and turns a failure into an error
func translate(ctx context.Context, s *session.Controller, text string) (string, error) {
	result, err := s.Translate(ctx, text)
	if err != nil {
		return "", err
	}
	if !result.OK() {
		return "", fmt.Errorf("%s: %w", result.Failure.Marker(), result.Failure)
	}
	return result.Value, nil
}

// oneLine shortens multi-line journal fields for the table
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", ", ")
	if r := []rune(s); len(r) > 40 {
		return string(r[:39]) + "…"
	}
	return s
}
