package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/archive/cli"
)

// NewRootCmd assembles the archive command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"archive",
		"Personal archive client with an @field-scoped AI agent",
	)
	root.Long = `Archive notes, links and files into fields and ask the archive agent
about them. Type @<field> in a question to scope it to one field.

Examples:
  # Open the agent chat
  archive agent

  # Ask a one-off question scoped to the work field
  archive ask "@work what did I save about hiring?"

  # List items in a field
  archive items list --field learning`

	root.AddCommand(
		NewAgentCmd(),
		NewAskCmd(),
		NewCategoriesCmd(),
		NewItemsCmd(),
		NewMapCmd(),
		NewHealthCmd(),
		NewConfigCmd(),
		cli.NewVersionCommand("archive"),
	)

	cli.ApplyStyledHelpRecursive(root)
	return root
}
