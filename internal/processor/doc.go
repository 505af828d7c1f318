// Package processor wires configuration into learning sessions and runs
// the polyglot commands. It builds the chat backend, speaker and request
// journal from viper settings and hands sessions to the CLI, the desktop
// GUI, the HTTP API and the Telegram bot. This package serves as the main
// coordinator between all other components.
package processor
