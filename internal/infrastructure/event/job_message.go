package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultJobTopic is the topic SKU jobs are exchanged on
const DefaultJobTopic = "catalog-sku-jobs"

// ErrInvalidJobMessage is returned for payloads without a SKU
var ErrInvalidJobMessage = errors.New("event: invalid sku job message")

// SKUJobMessage asks a worker to synchronize one SKU.
// The minimal payload is {"sku": "..."}.
type SKUJobMessage struct {
	SKU         string    `json:"sku"`
	Currency    string    `json:"currency,omitempty"`
	RequestedAt time.Time `json:"requested_at,omitempty"`
}

// EncodeJobMessage serializes a job message
func EncodeJobMessage(msg SKUJobMessage) ([]byte, error) {
	if strings.TrimSpace(msg.SKU) == "" {
		return nil, ErrInvalidJobMessage
	}
	return json.Marshal(msg)
}

// DecodeJobMessage parses a job payload; the SKU is trimmed and required
func DecodeJobMessage(data []byte) (SKUJobMessage, error) {
	var msg SKUJobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SKUJobMessage{}, fmt.Errorf("%w: %v", ErrInvalidJobMessage, err)
	}
	msg.SKU = strings.TrimSpace(msg.SKU)
	if msg.SKU == "" {
		return SKUJobMessage{}, ErrInvalidJobMessage
	}
	return msg, nil
}
