package analysis

import "errors"

var (
	// ErrNoText is returned when the request text is missing or blank.
	ErrNoText = errors.New("no text provided")

	errInvalidJSON = errors.New("invalid json body")
)

const (
	msgNoText         = "No text provided"
	msgInvalidJSON    = "Invalid JSON body"
	msgUnsupported    = "Unsupported file"
	msgUploadTooLarge = "Upload too large"
	msgAnalysisFailed = "Analysis failed"
)
