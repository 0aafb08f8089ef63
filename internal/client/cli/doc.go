// Package cli provides the interactive fittrack command-line client.
//
// It wires configuration, the credential store, the session manager, the API
// pipeline and the services, then runs a REPL whose command set follows the
// session: register and login while signed out; profile, workouts, goals and
// logout while signed in.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends. See NewApp and runREPL for details.
package cli
