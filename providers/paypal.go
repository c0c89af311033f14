package providers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// PayPalVerifier implements IPNVerifier against PayPal's IPN verification
// endpoint: the notification body is echoed back with a validation command
// prepended and PayPal answers VERIFIED or INVALID.
type PayPalVerifier struct {
	verifyURL  string
	httpClient *http.Client
}

func NewPayPalVerifier(verifyURL string) *PayPalVerifier {
	return &PayPalVerifier{
		verifyURL: verifyURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (p *PayPalVerifier) Verify(ctx context.Context, body []byte) (bool, error) {
	echo := append([]byte("cmd=_notify-validate&"), body...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.verifyURL, bytes.NewReader(echo))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}
	return string(bytes.TrimSpace(b)) == "VERIFIED", nil
}
