package cmd

import (
	"github.com/spf13/cobra"

	"intra42/internal/api"
	"intra42/internal/cli"
	"intra42/internal/config"
	"intra42/internal/oauth"
	"intra42/internal/session"
	"intra42/pkg/logging"
)

// runtime wires configuration, session and API client for one command.
type runtime struct {
	cfg       config.Config
	session   *session.Session
	client    *api.Client
	indicator *cli.WaitIndicator
	printer   *cli.Printer
}

func newRuntime(cmd *cobra.Command, o *rootOptions) (*runtime, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.mode != "" {
		cfg.Mode = o.mode
		if err := config.Revalidate(o.configPath, cfg); err != nil {
			return nil, err
		}
	}

	mode, err := oauth.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	wait, err := cfg.CallbackWait()
	if err != nil {
		return nil, err
	}
	if o.callbackTimeout > 0 {
		wait = o.callbackTimeout
	}

	indicator := cli.NewWaitIndicator(cmd.ErrOrStderr(), o.quiet)
	prompt := oauth.PrintPrompt(cmd.ErrOrStderr())
	if o.open {
		prompt = oauth.BrowserPrompt(cmd.ErrOrStderr())
	}

	oauthOpts := []oauth.Option{
		oauth.WithEndpoints(oauth.EndpointsFor(cfg.BaseURL)),
		oauth.WithCallbackTimeout(wait),
		oauth.WithPrompt(indicator.Wrap(prompt)),
		oauth.WithLogger(logging.Logger("OAuth")),
	}

	sess := session.New(cfg.Credentials(), mode,
		session.WithLogger(logging.Logger("Session")),
		session.WithOAuthOptions(oauthOpts...),
	)

	client, err := api.NewClient(sess,
		api.WithBaseURL(cfg.BaseURL),
		api.WithLogger(logging.Logger("API")),
	)
	if err != nil {
		return nil, err
	}

	logging.Debug("CLI", "Using %s mode with %s", mode, cfg.Credentials())

	return &runtime{
		cfg:       cfg,
		session:   sess,
		client:    client,
		indicator: indicator,
		printer:   cli.NewPrinter(cmd.OutOrStdout(), false),
	}, nil
}

// close stops any progress indicator still running.
func (r *runtime) close() {
	r.indicator.Stop()
}
