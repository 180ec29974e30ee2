// Package server exposes the conversion engine over HTTP.
//
// The contract is small: POST /convert runs the two-stage pipeline,
// GET /languages lists the catalog, GET /healthz answers liveness
// probes. Malformed requests are the only 400s; every pipeline failure
// surfaces as 500 with a "Code conversion failed:" detail.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/xlate/xlate"
)

// Config holds listener settings.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Debug           bool
}

// Server routes conversion requests to the engine.
type Server struct {
	conversion      *xlate.Conversion
	logger          *logrus.Logger
	engine          *gin.Engine
	http            *http.Server
	shutdownTimeout time.Duration
}

// New wires the route tree. The server does not listen until Run.
func New(conversion *xlate.Conversion, logger *logrus.Logger, cfg Config) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	engine := gin.New()
	engine.Use(requestLogger(logger), gin.Recovery())

	s := &Server{
		conversion: conversion,
		logger:     logger,
		engine:     engine,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}

	engine.POST("/convert", s.handleConvert)
	engine.GET("/languages", s.handleLanguages)
	engine.GET("/healthz", s.handleHealthz)

	return s
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is canceled, then drains in-flight
// requests for up to the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.WithField("addr", s.http.Addr).Info("listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// convertRequest mirrors the public API: code is required but may be
// empty, so it binds through a pointer. A missing key is a client
// error; an empty string still runs the pipeline.
type convertRequest struct {
	Code   *string `json:"code" binding:"required"`
	Prompt string  `json:"prompt"`
}

// convertResponse is the success body. The note arrays are always
// present, possibly empty.
type convertResponse struct {
	Code                         string   `json:"code"`
	LanguageSpecificNotes        []string `json:"language_specific_notes"`
	PotentialCompatibilityIssues []string `json:"potential_compatibility_issues"`
}

func (s *Server) handleConvert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	result, err := s.conversion.Fire(c.Request.Context(), xlate.ConversionInput{
		Code:        *req.Code,
		Instruction: req.Prompt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": fmt.Sprintf("Code conversion failed: %s", err),
		})
		return
	}

	c.JSON(http.StatusOK, convertResponse{
		Code:                         result.Code,
		LanguageSpecificNotes:        result.LanguageSpecificNotes,
		PotentialCompatibilityIssues: result.PotentialCompatibilityIssues,
	})
}

func (s *Server) handleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": xlate.Languages()})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger logs one line per request after the handler chain runs.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(started).Milliseconds(),
			"client_ip":   c.ClientIP(),
		}).Info("request")
	}
}
