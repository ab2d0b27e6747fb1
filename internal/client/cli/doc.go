// Package cli provides the interactive vocabkeeper command-line client.
//
// It wires configuration and the REST API client into a small REPL:
// register, login, inspect the current user, and manage vocabulary entries
// and favorites. Passwords are read without echo and wiped after use. The
// session token lives in memory only and is dropped on logout or when the
// server reports it as no longer valid.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
