// Package ocr defines how text is read out of a photo. No real recognition
// engine is wired in; Placeholder stands in until one is.
package ocr
