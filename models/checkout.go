package models

// CreateCheckoutRequest is the storefront's session-creation payload.
type CreateCheckoutRequest struct {
	PriceID       string `json:"price_id"`
	Quantity      int64  `json:"quantity"`
	CustomerEmail string `json:"customer_email"`
	UTMSource     string `json:"utm_source"`
	UTMMedium     string `json:"utm_medium"`
	UTMCampaign   string `json:"utm_campaign"`
	UTMTerm       string `json:"utm_term"`
	UTMContent    string `json:"utm_content"`
}

// UTM returns the attribution fields as flat metadata, empty strings
// included so downstream reporting always sees all five keys.
func (r *CreateCheckoutRequest) UTM() map[string]string {
	return map[string]string{
		"utm_source":   r.UTMSource,
		"utm_medium":   r.UTMMedium,
		"utm_campaign": r.UTMCampaign,
		"utm_term":     r.UTMTerm,
		"utm_content":  r.UTMContent,
	}
}

// UpsellIntentRequest asks for a one-click charge against the card saved
// during a prior checkout session.
type UpsellIntentRequest struct {
	SessionID string `json:"sid"`
	PriceID   string `json:"price_id"`
	Quantity  int64  `json:"quantity"`
}
