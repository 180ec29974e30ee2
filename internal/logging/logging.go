// Package logging configures logrus output and bridges engine telemetry
// signals onto it. The engine itself never logs; it emits capitan
// signals, and Bridge is what turns those into log lines.
package logging

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/zoobzio/capitan"

	"github.com/xlate/xlate"
)

// New builds a logrus logger from a level name and output format.
func New(level, format string) (*logrus.Logger, error) {
	logger := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(parsed)

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return logger, nil
}

// Bridge subscribes to all engine signals and forwards them to the
// logger: conversion lifecycle at Info, per-stage and provider traffic
// at Debug, failures at Error. The returned func detaches the observer.
func Bridge(logger *logrus.Logger) func() {
	observer := capitan.Observe(func(_ context.Context, e *capitan.Event) {
		entry := logger.WithFields(eventFields(e))
		signal := e.Signal()
		switch signal {
		case xlate.ConversionStarted, xlate.ConversionCompleted:
			entry.Info(string(signal))
		case xlate.ConversionFailed, xlate.RequestFailed,
			xlate.ProviderCallFailed, xlate.ResponseParseFailed:
			entry.Error(string(signal))
		default:
			entry.Debug(string(signal))
		}
	})
	return func() { observer.Close() }
}

// eventFields extracts every known engine key present on the event.
// Sizes and durations only; signals never carry prompt or code bodies.
func eventFields(e *capitan.Event) logrus.Fields {
	f := logrus.Fields{}
	if v, ok := xlate.RequestIDKey.From(e); ok {
		f["request_id"] = v
	}
	if v, ok := xlate.SynapseTypeKey.From(e); ok {
		f["synapse"] = v
	}
	if v, ok := xlate.PromptTaskKey.From(e); ok {
		f["task"] = v
	}
	if v, ok := xlate.TemperatureKey.From(e); ok {
		f["temperature"] = v
	}
	if v, ok := xlate.InputBytesKey.From(e); ok {
		f["input_bytes"] = v
	}
	if v, ok := xlate.ResponseBytesKey.From(e); ok {
		f["response_bytes"] = v
	}
	if v, ok := xlate.ProviderKey.From(e); ok {
		f["provider"] = v
	}
	if v, ok := xlate.ModelKey.From(e); ok {
		f["model"] = v
	}
	if v, ok := xlate.PromptTokensKey.From(e); ok {
		f["prompt_tokens"] = v
	}
	if v, ok := xlate.CompletionTokensKey.From(e); ok {
		f["completion_tokens"] = v
	}
	if v, ok := xlate.TotalTokensKey.From(e); ok {
		f["total_tokens"] = v
	}
	if v, ok := xlate.DurationMsKey.From(e); ok {
		f["duration_ms"] = v
	}
	if v, ok := xlate.HTTPStatusCodeKey.From(e); ok {
		f["status_code"] = v
	}
	if v, ok := xlate.APIErrorTypeKey.From(e); ok {
		f["api_error_type"] = v
	}
	if v, ok := xlate.APIErrorCodeKey.From(e); ok {
		f["api_error_code"] = v
	}
	if v, ok := xlate.ErrorKey.From(e); ok {
		f["error"] = v
	}
	if v, ok := xlate.ErrorTypeKey.From(e); ok {
		f["error_type"] = v
	}
	if v, ok := xlate.SourceLanguageKey.From(e); ok {
		f["source_language"] = v
	}
	if v, ok := xlate.TargetLanguageKey.From(e); ok {
		f["target_language"] = v
	}
	if v, ok := xlate.CodeBytesKey.From(e); ok {
		f["code_bytes"] = v
	}
	if v, ok := xlate.StageKey.From(e); ok {
		f["stage"] = v
	}
	return f
}
