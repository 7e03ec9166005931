// Package cli provides the interactive admin client of the wedding site.
//
// It wires configuration, the local mirror, the remote backend, the
// connectivity watcher and the data services into a REPL. Typical flow:
// pick a backend, seed missing defaults when the backend is reachable,
// start the watcher, and execute admin commands.
//
// Key features:
//   - Gallery and timeline management, online or offline
//   - Theme, venue and wedding details editing
//   - Guest RSVP listing and entry
//   - Forced offline mode and cache maintenance
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the command methods for details.
package cli
