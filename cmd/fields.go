package cmd

import (
	"github.com/spf13/cobra"

	"intra42/internal/api"
	"intra42/internal/cli"
	"intra42/internal/config"
)

// fieldCommand prints one view of the current user.
type fieldCommand struct {
	name  string
	short string
	print func(p *cli.Printer, u *api.User)
}

var fieldCommands = []fieldCommand{
	{
		name:  "id",
		short: "Print the user id",
		print: func(p *cli.Printer, u *api.User) { p.Field("ID", u.ID) },
	},
	{
		name:  "login",
		short: "Print the user login",
		print: func(p *cli.Printer, u *api.User) { p.Field("Login", u.Login) },
	},
	{
		name:  "email",
		short: "Print the user email address",
		print: func(p *cli.Printer, u *api.User) { p.Field("Email", u.Email) },
	},
	{
		name:  "wallet",
		short: "Print the wallet balance",
		print: func(p *cli.Printer, u *api.User) { p.Field("Wallet", u.Wallet) },
	},
	{
		name:  "correction_point",
		short: "Print the evaluation points",
		print: func(p *cli.Printer, u *api.User) { p.Field("Correction point", u.CorrectionPoint) },
	},
	{
		name:  "me",
		short: "Print a profile summary",
		print: func(p *cli.Printer, u *api.User) { p.User(u) },
	},
}

func newFieldCmd(o *rootOptions, fc fieldCommand) *cobra.Command {
	return &cobra.Command{
		Use:   fc.name,
		Short: fc.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, o)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := config.RequireLogin(o.configPath, rt.cfg); err != nil {
				return err
			}

			user, err := rt.client.Me(cmd.Context(), rt.cfg.Login)
			rt.close()
			if err != nil {
				return err
			}

			fc.print(rt.printer, user)
			return nil
		},
	}
}
