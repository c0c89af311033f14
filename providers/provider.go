package providers

import (
	"context"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/models"
)

// AttributionProvider sends marketing conversion events to an ad platform.
type AttributionProvider interface {
	SendEvent(ctx context.Context, event *models.AttributionEvent) error
}

// OrderTracker submits order records to the order-tracking aggregation API.
type OrderTracker interface {
	SubmitOrder(ctx context.Context, order *models.OrderRecord) error
}

// IPNVerifier echoes a raw IPN body back to the legacy provider and reports
// whether the provider vouches for it.
type IPNVerifier interface {
	Verify(ctx context.Context, body []byte) (bool, error)
}
