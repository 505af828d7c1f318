// Package languages holds the fixed set of target languages offered to
// learners, each with its display label and speech-synthesis locale code.
package languages
