package runctx

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type contextKey string

const (
	runIDKey    contextKey = "runID"
	fileNameKey contextKey = "fileName"
)

// ErrNoRunIDInContext is returned when no run ID is found in context
var ErrNoRunIDInContext = errors.New("no run ID found in context")

// ErrNoFileInContext is returned when no file name is found in context
var ErrNoFileInContext = errors.New("no file name found in context")

// NewRunID returns a fresh identifier for one importer invocation.
func NewRunID() string {
	return uuid.NewString()
}

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run ID from the context
func RunIDFromContext(ctx context.Context) (string, error) {
	runID, ok := ctx.Value(runIDKey).(string)
	if !ok || runID == "" {
		return "", ErrNoRunIDInContext
	}
	return runID, nil
}

// WithFileName scopes the context to one upload file.
func WithFileName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, fileNameKey, name)
}

// FileNameFromContext extracts the upload file name from the context
func FileNameFromContext(ctx context.Context) (string, error) {
	name, ok := ctx.Value(fileNameKey).(string)
	if !ok || name == "" {
		return "", ErrNoFileInContext
	}
	return name, nil
}
