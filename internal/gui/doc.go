// Package gui is the desktop front-end built with fyne: pick a language,
// step through its vocabulary, listen to words, translate phrases and
// photos.
package gui
