package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clerk delivers webhooks through Svix: the payload is signed with
// HMAC-SHA256 over "{message id}.{timestamp}.{body}" and the signature
// arrives base64-encoded in the svix-signature header.

const webhookTolerance = 5 * time.Minute

// Webhook verification errors
var (
	ErrWebhookMissingHeaders   = errors.New("clerk webhook: missing svix headers")
	ErrWebhookInvalidTimestamp = errors.New("clerk webhook: invalid timestamp")
	ErrWebhookExpired          = errors.New("clerk webhook: timestamp outside tolerance")
	ErrWebhookBadSignature     = errors.New("clerk webhook: signature mismatch")
)

// WebhookVerifier verifies Clerk webhook deliveries
type WebhookVerifier struct {
	key []byte
}

// NewWebhookVerifier creates a verifier from the endpoint signing secret
// as shown in the Clerk dashboard ("whsec_..." form)
func NewWebhookVerifier(secret string) (*WebhookVerifier, error) {
	encoded := strings.TrimPrefix(secret, "whsec_")
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("clerk webhook: malformed signing secret: %w", err)
	}
	return &WebhookVerifier{key: key}, nil
}

// Verify checks a webhook delivery against its svix headers.
// msgID, timestamp and signatures come from the svix-id, svix-timestamp
// and svix-signature headers respectively.
func (v *WebhookVerifier) Verify(payload []byte, msgID, timestamp, signatures string) error {
	return v.verifyAt(payload, msgID, timestamp, signatures, time.Now())
}

func (v *WebhookVerifier) verifyAt(payload []byte, msgID, timestamp, signatures string, now time.Time) error {
	if msgID == "" || timestamp == "" || signatures == "" {
		return ErrWebhookMissingHeaders
	}

	unix, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return ErrWebhookInvalidTimestamp
	}
	sentAt := time.Unix(unix, 0)
	if sentAt.Before(now.Add(-webhookTolerance)) || sentAt.After(now.Add(webhookTolerance)) {
		return ErrWebhookExpired
	}

	expected := v.sign(msgID, timestamp, payload)

	// The header may carry several space-separated versioned signatures
	for _, part := range strings.Fields(signatures) {
		version, sig, found := strings.Cut(part, ",")
		if !found || version != "v1" {
			continue
		}
		received, err := base64.StdEncoding.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, received) {
			return nil
		}
	}

	return ErrWebhookBadSignature
}

func (v *WebhookVerifier) sign(msgID, timestamp string, payload []byte) []byte {
	mac := hmac.New(sha256.New, v.key)
	fmt.Fprintf(mac, "%s.%s.", msgID, timestamp)
	mac.Write(payload)
	return mac.Sum(nil)
}
