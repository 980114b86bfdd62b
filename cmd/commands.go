package cmd

import (
	"github.com/spf13/cobra"

	"intra42/internal/cli"
)

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "commands",
		Aliases: []string{"list"},
		Short:   "List the available field commands",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printCommands(cmd)
		},
	}
}

func printCommands(cmd *cobra.Command) {
	infos := make([]cli.CommandInfo, 0, len(fieldCommands))
	for _, fc := range fieldCommands {
		infos = append(infos, cli.CommandInfo{Name: fc.name, Description: fc.short})
	}
	cli.NewPrinter(cmd.OutOrStdout(), false).Commands(infos)
}
