package languages

import (
	"fmt"
	"strings"
)

// Language is a target language a learner can pick
type Language struct {
	Label string // Display name, also used in prompts
	Code  string // Speech-synthesis locale code, may be empty
}

func (l Language) String() string {
	return l.Label
}

var all = []Language{
	{Label: "Spanish", Code: "es"},
	{Label: "French", Code: "fr"},
	{Label: "German", Code: "de"},
	{Label: "Chinese", Code: "zh"},
	{Label: "Japanese", Code: "ja"},
}

// All returns the supported languages in display order
func All() []Language {
	result := make([]Language, len(all))
	copy(result, all)
	return result
}

// Default returns the language a new session starts with
func Default() Language {
	return all[0]
}

// Labels returns the display labels in order, for pickers
func Labels() []string {
	labels := make([]string, len(all))
	for i, l := range all {
		labels[i] = l.Label
	}
	return labels
}

// Lookup finds a language by label or code, case-insensitively
func Lookup(name string) (Language, error) {
	name = strings.TrimSpace(name)
	for _, l := range all {
		if strings.EqualFold(l.Label, name) || (l.Code != "" && strings.EqualFold(l.Code, name)) {
			return l, nil
		}
	}
	return Language{}, fmt.Errorf("unsupported language: %q (choose one of %s)", name, strings.Join(Labels(), ", "))
}

// IsSupported reports whether lang is one of the fixed languages
func IsSupported(lang Language) bool {
	for _, l := range all {
		if l == lang {
			return true
		}
	}
	return false
}
