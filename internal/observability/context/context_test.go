package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = WithRequestID(ctx, " req-1 ")
	ctx = WithSessionID(ctx, "1790000000000000000")
	ctx = WithActor(ctx, "system", "scheduler")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "1790000000000000000", SessionIDFromContext(ctx))
	actorType, actorID := ActorFromContext(ctx)
	assert.Equal(t, "system", actorType)
	assert.Equal(t, "scheduler", actorID)
}
