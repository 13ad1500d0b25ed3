package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleEvent struct {
	shared.BaseDomainEvent
}

func TestRecordingHandler(t *testing.T) {
	h := NewRecordingHandler("OrderPlaced")
	assert.Equal(t, []string{"OrderPlaced"}, h.EventTypes())

	e := &sampleEvent{shared.NewBaseDomainEvent("OrderPlaced", "Order", uuid.New())}
	require.NoError(t, h.Handle(context.Background(), e))

	h.SetError(errors.New("boom"))
	assert.Error(t, h.Handle(context.Background(), e))

	got := WaitForEvents(t, h, 2, time.Second)
	assert.Len(t, got, 2)
	assert.Equal(t, []string{"OrderPlaced", "OrderPlaced"}, h.Types())
}
