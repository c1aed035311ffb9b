// Package cli provides the interactive urchin command-line client.
//
// It wires configuration, logging, the local store, the API client and an
// interactive REPL. A stored session from an earlier run is picked up, so a
// restart does not require a new login.
//
// Commands:
//   - login                   sign in and cache the account
//   - whoami                  show the session, server and token claims
//   - server <name>           switch between production, staging, development
//   - viewable                list the accounts the signed-in user may view
//   - profile [userid]        fetch and show a profile (default: yourself)
//   - notes [userid] [days]   fetch notes of the last days (default 7)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
