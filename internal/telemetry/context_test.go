package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petasbytes/dungeon-tools/internal/telemetry"
)

func TestTurnID_RoundTripAndOverride(t *testing.T) {
	ctx := telemetry.WithTurnID(context.Background(), "t1")
	id, ok := telemetry.TurnIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "t1", id)

	id, _ = telemetry.TurnIDFromContext(telemetry.WithTurnID(ctx, "t2"))
	assert.Equal(t, "t2", id)
}

func TestTurnID_MissingOrEmpty(t *testing.T) {
	_, ok := telemetry.TurnIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = telemetry.TurnIDFromContext(telemetry.WithTurnID(context.Background(), ""))
	assert.False(t, ok)
}

func TestEnsureTurnID(t *testing.T) {
	ctx, id := telemetry.EnsureTurnID(context.Background())
	require.NotEmpty(t, id)
	got, ok := telemetry.TurnIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	// An existing id is kept so every step of a turn shares it.
	same, id2 := telemetry.EnsureTurnID(ctx)
	assert.Equal(t, id, id2)
	assert.Equal(t, ctx, same)

	_, other := telemetry.EnsureTurnID(context.Background())
	assert.NotEqual(t, id, other)
}
