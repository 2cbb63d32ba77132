package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusNextWalksForward(t *testing.T) {
	status := OrderStatusPending
	var walked []OrderStatus
	for {
		next, ok := status.Next()
		if !ok {
			break
		}
		walked = append(walked, next)
		status = next
	}

	require.Equal(t, []OrderStatus{
		OrderStatusConfirmed,
		OrderStatusPacking,
		OrderStatusShipped,
		OrderStatusDelivered,
	}, walked)
	assert.True(t, status.IsTerminal())
}

func TestOrderStatusNextStopsAtDelivered(t *testing.T) {
	_, ok := OrderStatusDelivered.Next()
	assert.False(t, ok)
}

func TestOrderStatusNextRejectsUnknown(t *testing.T) {
	_, ok := OrderStatus("cancelled").Next()
	assert.False(t, ok)
}

func TestOrderStatusIsValid(t *testing.T) {
	assert.True(t, OrderStatusPacking.IsValid())
	assert.False(t, OrderStatus("refunded").IsValid())
}
