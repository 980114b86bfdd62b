package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path-or-url>",
		Short: "Print the raw response of an API path",
		Long: `Send an authenticated GET and print the response body unchanged.

The argument is either a path relative to the API host, such as
/v2/cursus, or an absolute URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, o)
			if err != nil {
				return err
			}
			defer rt.close()

			body, err := rt.client.Call(cmd.Context(), args[0])
			rt.close()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), body)
			return nil
		},
	}
}
