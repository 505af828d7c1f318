// Package models lists the OpenAI models available to an API key and
// sorts them into chat and speech models usable by polyglot.
package models
