package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xlate/xlate"
	"github.com/xlate/xlate/internal/config"
	"github.com/xlate/xlate/internal/logging"
	"github.com/xlate/xlate/providers"
)

// application carries state shared by the subcommands that talk to a
// provider. It is populated by initialize once flags are parsed;
// commands that need no configuration (languages, version) never call
// it.
type application struct {
	configPath string
	cfg        *config.Config
	logger     *logrus.Logger
	detach     func()
}

func newRootCommand() *cobra.Command {
	app := &application{}

	cmd := &cobra.Command{
		Use:          "xlated",
		Short:        "Code conversion service backed by an LLM gateway",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&app.configPath, "config", "",
		"config file (default ./xlate.yaml or $HOME/.xlate/xlate.yaml)")

	cmd.AddCommand(
		newServeCommand(app),
		newConvertCommand(app),
		newLanguagesCommand(),
		newVersionCommand(),
	)

	return cmd
}

// initialize loads configuration, configures logging, and attaches the
// signal bridge. The returned state lives on app; detach must run when
// the command finishes.
func (app *application) initialize() error {
	cfg, err := config.Load(app.configPath)
	if err != nil {
		return err
	}
	app.cfg = cfg

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	app.logger = logger
	app.detach = logging.Bridge(logger)

	return nil
}

func (app *application) buildProvider(ctx context.Context) (xlate.Provider, error) {
	p := app.cfg.Provider
	return providers.New(ctx, providers.Config{
		Kind:         p.Kind,
		APIKey:       p.APIKey(),
		Model:        p.Model,
		BaseURL:      p.BaseURL,
		Timeout:      p.Timeout,
		OrgID:        p.OrgID,
		Referer:      p.Referer,
		Title:        p.Title,
		FunctionName: p.FunctionName,
		Region:       p.Region,
	})
}

func (app *application) buildConversion(ctx context.Context) (*xlate.Conversion, error) {
	provider, err := app.buildProvider(ctx)
	if err != nil {
		return nil, err
	}

	var opts []xlate.Option
	if retries := app.cfg.Provider.Retries; retries > 0 {
		// retries counts re-attempts; WithRetry takes total attempts.
		opts = append(opts, xlate.WithRetry(retries+1))
	}

	return xlate.NewConversion(provider, opts...)
}
