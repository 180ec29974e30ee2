// Package main is the entry point for the conversion Lambda function.
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	log "github.com/sirupsen/logrus"

	"github.com/xlate/xlate"
	"github.com/xlate/xlate/internal/config"
	"github.com/xlate/xlate/internal/handler"
	"github.com/xlate/xlate/internal/logging"
	"github.com/xlate/xlate/providers"
)

func main() {
	h, err := setup(context.Background())
	if err != nil {
		log.WithError(err).Fatal("initialization failed")
	}
	lambda.Start(h.Handle)
}

// setup builds the conversion pipeline once per cold start. All
// configuration comes from XLATE_-prefixed environment variables; there
// is no config file in the function bundle.
func setup(ctx context.Context) (*handler.Handler, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	// The bridge lives for the process lifetime; Lambda freezes rather
	// than shuts down, so there is nothing to detach.
	_ = logging.Bridge(logger)

	p := cfg.Provider
	provider, err := providers.New(ctx, providers.Config{
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
	if err != nil {
		return nil, err
	}

	var opts []xlate.Option
	if retries := p.Retries; retries > 0 {
		opts = append(opts, xlate.WithRetry(retries+1))
	}

	conversion, err := xlate.NewConversion(provider, opts...)
	if err != nil {
		return nil, err
	}

	return handler.New(conversion), nil
}
