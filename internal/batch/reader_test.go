package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadBatchFile(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		want        []Entry
	}{
		{
			name:        "empty file",
			fileContent: "",
			want:        nil,
		},
		{
			name:        "only whitespace",
			fileContent: "   \n\t\r\n   ",
			want:        nil,
		},
		{
			name: "phrases only",
			fileContent: `good morning
thank you
where is the station`,
			want: []Entry{
				{Line: 1, Text: "good morning"},
				{Line: 2, Text: "thank you"},
				{Line: 3, Text: "where is the station"},
			},
		},
		{
			name: "phrases with targets",
			fileContent: `good morning = fr
thank you = Japanese
cat`,
			want: []Entry{
				{Line: 1, Text: "good morning", Language: "fr"},
				{Line: 2, Text: "thank you", Language: "Japanese"},
				{Line: 3, Text: "cat"},
			},
		},
		{
			name: "comments and blank lines",
			fileContent: `# Greetings
hello

  # indented comment
  goodbye  
`,
			want: []Entry{
				{Line: 2, Text: "hello"},
				{Line: 5, Text: "goodbye"},
			},
		},
		{
			name:        "windows line endings",
			fileContent: "hello\r\ncat = de\r\ndog",
			want: []Entry{
				{Line: 1, Text: "hello"},
				{Line: 2, Text: "cat", Language: "de"},
				{Line: 3, Text: "dog"},
			},
		},
		{
			name:        "multiple equals signs",
			fileContent: `1 + 1 = 2 = zh`,
			want: []Entry{
				{Line: 1, Text: "1 + 1 = 2", Language: "zh"},
			},
		},
		{
			name:        "target without phrase",
			fileContent: "= fr\nbread",
			want: []Entry{
				{Line: 2, Text: "bread"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpFile := filepath.Join(t.TempDir(), "test.txt")
			if err := os.WriteFile(tmpFile, []byte(tt.fileContent), 0644); err != nil {
				t.Fatalf("Failed to create test file: %v", err)
			}

			got, err := ReadBatchFile(tmpFile)
			if err != nil {
				t.Fatalf("ReadBatchFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadBatchFile_FileNotFound(t *testing.T) {
	_, err := ReadBatchFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestReadEntries(t *testing.T) {
	got, err := ReadEntries(strings.NewReader("uno\ndos = es\n"))
	if err != nil {
		t.Fatalf("ReadEntries() error = %v", err)
	}
	want := []Entry{{Line: 1, Text: "uno"}, {Line: 2, Text: "dos", Language: "es"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadEntries() = %v, want %v", got, want)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"unix line endings", "line1\nline2\nline3", []string{"line1", "line2", "line3"}},
		{"windows line endings", "line1\r\nline2\r\nline3", []string{"line1", "line2", "line3"}},
		{"mixed line endings", "line1\nline2\r\nline3", []string{"line1", "line2", "line3"}},
		{"empty string", "", nil},
		{"single line no ending", "single line", []string{"single line"}},
		{"trailing newline", "line1\nline2\n", []string{"line1", "line2"}},
		{"blank line kept", "a\n\nb", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitLines(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitLines() = %v, want %v", got, tt.want)
			}
		})
	}
}
