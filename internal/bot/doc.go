// Package bot is the Telegram front-end. Every chat gets its own learning
// session; commands step through vocabulary and plain text is translated.
package bot
