// Package handler runs conversions for Lambda events, mirroring the
// HTTP contract for event-based invocation.
package handler

import (
	"context"
	"fmt"

	"github.com/xlate/xlate"
)

// Request is the input event. Code is a pointer for the same reason the
// HTTP layer binds one: a missing key is a client error, an empty
// string is a valid conversion input.
type Request struct {
	Code   *string `json:"code"`
	Prompt string  `json:"prompt"`
}

// Response is the output event. Failures ride in-band on the Error
// field so the platform does not retry them; callers check error
// before reading the result fields.
type Response struct {
	Code                         string   `json:"code"`
	LanguageSpecificNotes        []string `json:"language_specific_notes"`
	PotentialCompatibilityIssues []string `json:"potential_compatibility_issues"`
	Error                        string   `json:"error,omitempty"`
}

// Handler runs conversions for Lambda events.
type Handler struct {
	conversion *xlate.Conversion
}

// New binds the handler to a conversion pipeline. The pipeline is
// built once per cold start and reused across invocations.
func New(conversion *xlate.Conversion) *Handler {
	return &Handler{conversion: conversion}
}

// Handle processes one conversion event.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	if req.Code == nil {
		return &Response{Error: "code is required"}, nil
	}

	result, err := h.conversion.Fire(ctx, xlate.ConversionInput{
		Code:        *req.Code,
		Instruction: req.Prompt,
	})
	if err != nil {
		return &Response{Error: fmt.Sprintf("Code conversion failed: %s", err)}, nil
	}

	return &Response{
		Code:                         result.Code,
		LanguageSpecificNotes:        result.LanguageSpecificNotes,
		PotentialCompatibilityIssues: result.PotentialCompatibilityIssues,
	}, nil
}
