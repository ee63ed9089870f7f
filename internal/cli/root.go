package cli

import (
	"github.com/spf13/cobra"

	"github.com/mwalczyk/oasc/internal/config"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "oasc",
		Short:   "oasc - OpenAPI specification compiler",
		Version: "1.0.0",

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	config.BindCommonFlags(root)

	root.AddCommand(
		ValidateCommand(),
		MergeCommand(),
		SplitCommand(),
		ResolveCommand(),
		TypesCommand(),
	)

	return root
}
