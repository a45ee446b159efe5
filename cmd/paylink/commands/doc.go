// Package commands defines the paylink CLI and wires dependencies for subcommands.
//
// Commands
//
//   - device init|show|reset  Create, print or discard the device identity
//   - login                   Authenticate this device
//   - logout                  End the session, keeping the device identity
//   - session show            Print the cached session
//   - wallets                 Refresh and print wallet balances
//   - senders                 Fetch one page of a sender list tab
//   - sender use <id>         Make a sender profile the active one
//   - draft set|show|clear    Manage the add-sender draft
//
// # Implementation
//
// The root command reads PAYLINK_* configuration, applies flag overrides
// and builds the dependency graph (store, keystore, session, API client,
// dashboard) before any subcommand runs. Errors from the secure channel
// and the API are printed as short user-facing messages; the full error
// goes to the debug log.
package commands
