// Package cli provides the interactive tadpole command-line client.
//
// It plays the UI role on top of the directory and session services: it
// collects form input, issues commands and renders the catalog snapshots
// published by the directory service.
//
// Key features:
//   - Login / Logout / WhoAmI
//   - Administrator commands: list, add, update, delete
//   - passwd: change the credential of the current user
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Available commands depend on the role of the current user.
package cli
