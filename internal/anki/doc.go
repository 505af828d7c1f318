// Package anki turns journaled translations into Anki flashcards, either as
// a CSV file for Anki's import dialog or as a self-contained .apkg package.
package anki
