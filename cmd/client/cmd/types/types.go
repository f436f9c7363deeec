// Package types holds the context keys shared between the root command and
// its subcommand packages.
package types

type contextKey string

// ClientAppKey carries the initialized *client.App on the command context.
const ClientAppKey contextKey = "clientApp"
