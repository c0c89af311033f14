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

const facebookGraphURL = "https://graph.facebook.com/v18.0"

// FacebookProvider implements AttributionProvider against the Meta
// Conversions API.
type FacebookProvider struct {
	pixelID     string
	accessToken string
	httpClient  *http.Client

	// BaseURL is overridable for tests; defaults to the Graph API.
	BaseURL string
}

func NewFacebookProvider(pixelID, accessToken string) *FacebookProvider {
	return &FacebookProvider{
		pixelID:     pixelID,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		BaseURL: facebookGraphURL,
	}
}

// ---- Conversions API request structs ----

type fbUserData struct {
	Em              []string `json:"em,omitempty"`
	ClientIPAddress string   `json:"client_ip_address,omitempty"`
	ClientUserAgent string   `json:"client_user_agent,omitempty"`
}

type fbCustomData struct {
	Currency   string   `json:"currency"`
	Value      float64  `json:"value"`
	ContentIDs []string `json:"content_ids,omitempty"`
}

type fbEvent struct {
	EventName    string       `json:"event_name"`
	EventTime    int64        `json:"event_time"`
	EventID      string       `json:"event_id,omitempty"`
	ActionSource string       `json:"action_source"`
	UserData     fbUserData   `json:"user_data"`
	CustomData   fbCustomData `json:"custom_data"`
}

type fbEventRequest struct {
	Data []fbEvent `json:"data"`
}

// SendEvent posts a single conversion event to the pixel's events endpoint.
func (p *FacebookProvider) SendEvent(ctx context.Context, event *models.AttributionEvent) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	payload := fbEventRequest{
		Data: []fbEvent{{
			EventName:    event.Name,
			EventTime:    ts.Unix(),
			EventID:      event.EventID,
			ActionSource: "website",
			UserData: fbUserData{
				ClientIPAddress: event.ClientIP,
				ClientUserAgent: event.UserAgent,
			},
			CustomData: fbCustomData{
				Currency:   event.Currency,
				Value:      event.Value,
				ContentIDs: event.ProductIDs,
			},
		}},
	}
	if event.EmailHash != "" {
		payload.Data[0].UserData.Em = []string{event.EmailHash}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/events?access_token=%s", p.BaseURL, p.pixelID, p.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("conversions API returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
