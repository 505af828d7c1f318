// Package server exposes learning sessions over a JSON HTTP API.
//
// Routes:
//
//	GET    /languages
//	POST   /sessions
//	GET    /sessions/{id}
//	PUT    /sessions/{id}/language
//	POST   /sessions/{id}/next
//	POST   /sessions/{id}/translate
//	POST   /sessions/{id}/photo
//	DELETE /sessions/{id}
//
// Sessions live in memory and are keyed by UUID. Request failures are part
// of the response body, not HTTP errors: a failed vocabulary fetch still
// answers 200 with the failure marker in the word list.
package server
