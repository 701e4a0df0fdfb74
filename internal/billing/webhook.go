package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"admaker/internal/domain"
)

// EventCheckoutCompleted is the only event type fulfillment reacts to.
const EventCheckoutCompleted = "checkout.session.completed"

// DefaultSignatureTolerance bounds how stale a signed webhook may be.
const DefaultSignatureTolerance = 5 * time.Minute

var (
	ErrMissingSignature = errors.New("billing: missing signature header")
	ErrBadSignature     = errors.New("billing: signature verification failed")
	ErrStaleSignature   = errors.New("billing: signature timestamp outside tolerance")
)

// Event is the envelope the processor posts to the webhook endpoint.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

// VerifySignature checks a "t=<unix>,v1=<hex hmac>" signature header over
// "<t>.<payload>" with HMAC-SHA256, rejecting timestamps outside the
// tolerance window. now is injectable for tests.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if strings.TrimSpace(header) == "" {
		return ErrMissingSignature
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return ErrBadSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if tolerance > 0 {
		age := now.Sub(time.Unix(ts, 0))
		if age > tolerance || age < -tolerance {
			return ErrStaleSignature
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return ErrBadSignature
}

// SignPayload produces a signature header for a payload. Used by tests and
// local tooling to emit verifiable events.
func SignPayload(payload []byte, secret string, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

// ParseEvent decodes a verified webhook payload.
func ParseEvent(payload []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("billing: decode event: %w", err)
	}
	return &event, nil
}

// Fulfiller credits user accounts for completed checkouts.
type Fulfiller struct {
	ledger domain.CreditLedger
	logger zerolog.Logger
}

// NewFulfiller wires webhook fulfillment to the credit ledger.
func NewFulfiller(ledger domain.CreditLedger, logger *zerolog.Logger) *Fulfiller {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &Fulfiller{ledger: ledger, logger: l}
}

// HandleEvent applies a verified event. Non-checkout events are acknowledged
// without action. Log lines carry session id and credit count only, never the
// user id next to a payment identifier.
func (f *Fulfiller) HandleEvent(ctx context.Context, event *Event) error {
	if event.Type != EventCheckoutCompleted {
		return nil
	}

	session := event.Data.Object
	userID := session.ClientReferenceID
	creditsStr := session.Metadata["credits"]
	if userID == "" || creditsStr == "" {
		return domain.NewValidationError("session is missing reference or credits metadata")
	}

	credits, err := strconv.Atoi(creditsStr)
	if err != nil || credits < 1 {
		return domain.NewValidationError("session has invalid credits metadata")
	}

	if err := f.ledger.Add(ctx, userID, credits); err != nil {
		f.logger.Error().
			Str("session_id", session.ID).
			Err(err).
			Msg("credit fulfillment failed")
		return fmt.Errorf("billing: add credits: %w", err)
	}

	f.logger.Info().
		Str("session_id", session.ID).
		Int("credits", credits).
		Msg("credits added")
	return nil
}
