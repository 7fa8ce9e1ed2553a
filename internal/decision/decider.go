package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/joelkehle/weekly-planner/internal/plan"
)

const maxAttempts = 3

// Decider calls the model with a per-product payload and validates the
// structured verdict. It implements plan.Decider; callers map any returned
// error to the fail-safe outcome.
type Decider struct {
	caller JSONCaller
}

func NewDecider(caller JSONCaller) *Decider {
	return &Decider{caller: caller}
}

type verdict struct {
	Decision   plan.Decision `json:"decision"`
	Rationale  string        `json:"rationale"`
	Confidence float64       `json:"confidence"`
}

func (d *Decider) Decide(ctx context.Context, payload plan.Payload) (plan.Outcome, error) {
	blob, err := json.Marshal(payload)
	if err != nil {
		return plan.Outcome{}, fmt.Errorf("encode payload: %w", err)
	}
	prompt := string(blob) + "\n\nRespond with only the JSON object described in your instructions."

	feedback := ""
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		full := prompt
		if feedback != "" {
			full += "\n\n" + feedback
		}

		raw, err := d.caller.GenerateJSON(ctx, full)
		if err != nil {
			class := classifyTransportError(err)
			if attempt < maxAttempts && (class == failureTimeout || class == failureRateLimit || class == failureServer) {
				select {
				case <-time.After(backoffDelay(attempt)):
					continue
				case <-ctx.Done():
					return plan.Outcome{}, ctx.Err()
				}
			}
			return plan.Outcome{}, fmt.Errorf("transport failure: %w", err)
		}

		var v verdict
		clean := stripCodeFences(raw)
		if clean == "" {
			if attempt < maxAttempts {
				feedback = "Your previous response was empty. Respond with valid JSON."
				continue
			}
			return plan.Outcome{}, fmt.Errorf("empty response")
		}
		if err := json.Unmarshal([]byte(clean), &v); err != nil {
			if attempt < maxAttempts {
				feedback = "Your previous response was not valid JSON. Respond with only valid JSON."
				continue
			}
			return plan.Outcome{}, fmt.Errorf("parse response: %w", err)
		}
		if err := validateVerdict(v); err != nil {
			if attempt < maxAttempts {
				feedback = fmt.Sprintf("Your response failed validation: %s. Fix these issues.", err)
				continue
			}
			return plan.Outcome{}, fmt.Errorf("invalid verdict: %w", err)
		}
		return plan.Outcome{
			Decision:   v.Decision,
			Rationale:  strings.TrimSpace(v.Rationale),
			Confidence: v.Confidence,
		}, nil
	}
	return plan.Outcome{}, fmt.Errorf("failed after %d attempts", maxAttempts)
}

func validateVerdict(v verdict) error {
	if !plan.ValidDecision(v.Decision) {
		return fmt.Errorf("decision %q is not one of PRODUCE, PRODUCE_WITH_RISK, DO_NOT_PRODUCE", v.Decision)
	}
	if strings.TrimSpace(v.Rationale) == "" {
		return fmt.Errorf("rationale is required")
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		return fmt.Errorf("confidence %v is outside [0, 1]", v.Confidence)
	}
	return nil
}
