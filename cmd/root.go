package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"intra42/internal/cli"
	"intra42/internal/config"
	"intra42/pkg/logging"
)

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	configPath      string
	envFile         string
	logLevel        string
	mode            string
	open            bool
	quiet           bool
	callbackTimeout time.Duration
	list            bool
}

// rootCmd represents the base command for the intra42 application.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "intra42",
		Short: "Query the 42 intranet API from the terminal",
		Long: `intra42 authenticates against the 42 intranet with OAuth2 and prints
fields of the current user.

Credentials are read from a TOML or YAML file (default ./config.toml).
In client_credentials mode no browser is needed and the user is looked up
by the configured login. In authorization_code mode a browser login is
required and its redirect is captured on http://localhost:8080.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(o.logLevel)
			if err != nil {
				return err
			}
			logging.InitForCLI(level, cmd.ErrOrStderr())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.list {
				printCommands(cmd)
				return nil
			}
			return cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", config.DefaultConfigFile, "Path to the TOML or YAML configuration file")
	flags.StringVar(&o.envFile, "env-file", config.DefaultEnvFile, "Dotenv file with INTRA42_* overrides (ignored when missing)")
	flags.StringVar(&o.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&o.mode, "mode", "", "Grant mode override (authorization_code|code, client_credentials|credentials)")
	flags.BoolVar(&o.open, "open", false, "Open the authorization URL in the default browser")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "Do not show progress indicators")
	flags.DurationVar(&o.callbackTimeout, "callback-timeout", 0, "How long to wait for the browser redirect (default from config, 10m)")
	cmd.Flags().BoolVarP(&o.list, "list", "l", false, "List the available commands")

	for _, fc := range fieldCommands {
		cmd.AddCommand(newFieldCmd(o, fc))
	}
	cmd.AddCommand(newCommandsCmd())
	cmd.AddCommand(newGetCmd(o))
	cmd.AddCommand(newTokenCmd(o))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main() and is the only place the process exits.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "intra42 version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.Describe(err))
		os.Exit(cli.ExitCode(err))
	}
}
