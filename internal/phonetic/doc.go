// Package phonetic asks the chat backend for IPA transcriptions of words,
// with a symbol by symbol explanation for language learners.
package phonetic
