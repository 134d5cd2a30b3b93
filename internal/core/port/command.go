package port

import "vtobot/internal/core/domain"

// Command is the contract command handlers implement. The interface lives next
// to the registry in the domain package, the alias keeps the adapter-facing
// name with the other ports.
type Command = domain.CommandResponder

type CommandRegistry interface {
	// Register adds a new command handler to the command registry.
	Register(handler Command)
	// Get retrieves a registered Command based on its string identifier or returns an error if not found.
	Get(command string) (Command, error)
	// ListCommands returns a list of all command identifiers currently registered in the command registry.
	ListCommands() []string
}
