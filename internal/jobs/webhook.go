package jobs

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

// WebhookPayload is the terminal-status notification body.
type WebhookPayload struct {
	JobID  string       `json:"job_id"`
	Status Status       `json:"status"`
	Result *plan.Result `json:"result,omitempty"`
}

// Notifier POSTs signed job notifications to a caller-supplied URL.
type Notifier struct {
	secret string
	http   *http.Client
}

func NewNotifier(secret string) *Notifier {
	return &Notifier{
		secret: secret,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Sign computes the hex HMAC-SHA256 of payload under secret.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (n *Notifier) Notify(ctx context.Context, url string, payload WebhookPayload) error {
	blob, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(blob))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.secret != "" {
		req.Header.Set("X-Planner-Signature", "sha256="+Sign(n.secret, blob))
	}
	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
