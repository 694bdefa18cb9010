// Package cli provides the interactive command-line client for the school.
//
// It wires configuration, the local cache, the API client, the screen
// services and the upload widget behind a small REPL. The user signs in
// first; when the API is unreachable the last saved session is restored and
// lists are served from the cache. A background watcher pings the API and
// flips the prompt between online and offline.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher and runREPL for details.
package cli
