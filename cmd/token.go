package cmd

import (
	"github.com/spf13/cobra"
)

func newTokenCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Obtain a token and print what the provider reports about it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, o)
			if err != nil {
				return err
			}
			defer rt.close()

			err = rt.session.EnsureValidToken(cmd.Context())
			rt.close()
			if err != nil {
				return err
			}

			token, _ := rt.session.Token()
			rt.printer.Token(token, rt.session.State().String(), rt.session.Mode())
			return nil
		},
	}
}
