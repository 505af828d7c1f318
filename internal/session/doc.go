// Package session implements the learning session controller.
//
// A Controller owns the state of one learner session: the target language,
// the fetched vocabulary and the current word, the free-text input and its
// translation, and an optional photo. Front-ends (CLI, desktop GUI, HTTP API,
// Telegram bot) drive it through its operations and render State snapshots.
//
// Optional collaborators decide what a session can do: a Speaker enables
// listening, a photo Picker or TextExtractor enables photo translation, and
// free-text translation can be switched off. Each request kind keeps a
// generation counter; starting a request cancels the previous one of the same
// kind and only the most recent result is ever applied to the state.
//
// Request outcomes are Result values. Failures carry a *RequestFailure with
// a Kind and a Reason; the display marker ("Error fetching words." and so on)
// is derived from the Kind and written into the state for the UI.
package session
