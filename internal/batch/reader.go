package batch

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one phrase of a batch file
type Entry struct {
	Line     int    // 1-based line number in the file
	Text     string // Phrase to translate
	Language string // Target language for this line, empty for the default
}

// ReadBatchFile reads phrases from a file, "-" reads standard input.
// Supports formats:
// - Phrase only: "good morning" (translated to the default language)
// - With target: "good morning = fr" (translated to French)
// - Comment: "# anything" (ignored)
func ReadBatchFile(filename string) ([]Entry, error) {
	if filename == "-" {
		return ReadEntries(os.Stdin)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	return ReadEntries(f)
}

// ReadEntries parses batch entries from r
func ReadEntries(r io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []Entry
	for i, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := Entry{Line: i + 1, Text: line}

		// The last '=' separates the target, phrases may contain '=' themselves
		if idx := strings.LastIndex(line, "="); idx >= 0 {
			text := strings.TrimSpace(line[:idx])
			language := strings.TrimSpace(line[idx+1:])
			if text == "" {
				continue // Nothing to translate
			}
			entry.Text = text
			entry.Language = language
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// splitLines splits a string by newlines, dropping carriage returns
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r", "")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
