package queue

import (
	"encoding/json"
)

// TypeUnknown is the envelope type used when a message body is not
// structured or carries no type tag. Queue semantics do not guarantee
// producers only send known types, so this is a normal case.
const TypeUnknown = "unknown"

// Message represents one delivery of a queue message.
// It is owned by the queue backend until deleted; the consumer holds a
// transient reference while processing. Body is kept raw so that
// bodies failing structured decode can still be inspected downstream.
type Message struct {
	// ID is the backend-assigned message identifier
	ID string `json:"id"`

	// Body is the raw message payload
	Body []byte `json:"body"`

	// Receipt is the opaque handle entitling deletion of this delivery
	Receipt string `json:"receipt"`

	// Attributes carries string-keyed message attributes
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Envelope is the tagged variant decoded from a message body:
// a type tag plus an opaque structured payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// DecodeEnvelope decodes a message body into an envelope.
// A body that is not valid JSON, or that carries no type tag, yields
// the unknown variant with the raw body preserved in Data.
func DecodeEnvelope(body []byte) Envelope {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Type == "" {
		return Envelope{Type: TypeUnknown, Data: body}
	}
	return env
}
