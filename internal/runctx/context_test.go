package runctx

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunID_RoundTrip(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), id)
	got, err := RunIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestRunIDFromContext_Missing(t *testing.T) {
	_, err := RunIDFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoRunIDInContext)

	_, err = RunIDFromContext(WithRunID(context.Background(), ""))
	assert.ErrorIs(t, err, ErrNoRunIDInContext)
}

func TestFileName_RoundTrip(t *testing.T) {
	ctx := WithFileName(context.Background(), "1700000000_skipAI_0_leads.csv")
	got, err := FileNameFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1700000000_skipAI_0_leads.csv", got)

	_, err = FileNameFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoFileInContext)
}
