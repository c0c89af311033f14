package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/digitalsolutionsooh/stripe-checkout-backend/models"
)

// TrackerProvider implements OrderTracker against the UTM order-tracking
// aggregation API.
type TrackerProvider struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

func NewTrackerProvider(apiURL, apiKey string) *TrackerProvider {
	return &TrackerProvider{
		apiURL: apiURL,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SubmitOrder posts an order record. The tracker keys orders by orderId, so
// re-submissions of the same id overwrite rather than duplicate.
func (p *TrackerProvider) SubmitOrder(ctx context.Context, order *models.OrderRecord) error {
	body, err := json.Marshal(order)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-token", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tracking API returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
