// Package journal keeps an append-only log of completed session requests
// in SQLite or PostgreSQL.
//
// The journal is a history for the learner (polyglot history, spreadsheet
// export). It is never consulted to answer a request.
package journal
