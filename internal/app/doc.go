// Package app wires application dependencies for the CLI.
//
// It reads Config from PAYLINK_* environment variables, builds the logger,
// the persistence backend and profile store, the keystore, the session
// service, the API client and the dashboard service, and hands them to
// commands as an App.
package app
