package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Hoddity/virt/internal/config"
	"github.com/Hoddity/virt/internal/domain"
	"github.com/Hoddity/virt/pkg/utils"
)

// SourceAttribute is the value of the standard Source message attribute
const SourceAttribute = "virt-backend"

// Client abstracts send/receive/delete/stat operations against a named
// queue. Implementations are safe for concurrent use; each operation is
// self-contained.
//
// Receive deliberately swallows transport failures into an empty batch
// (logged, not surfaced) so the consumer loop stays simple. Send
// propagates transport failures to the caller.
type Client interface {
	// Send serializes body, merges caller attributes with the standard
	// Source/Timestamp/MessageType attributes and submits the message.
	// Returns the backend-assigned message id.
	Send(ctx context.Context, queueName string, body any, opts SendOptions) (string, error)

	// Receive long-polls for up to maxMessages messages. A poll timeout
	// and any transport failure both yield an empty batch.
	Receive(ctx context.Context, queueName string, maxMessages int32, waitTime time.Duration) []Message

	// Delete acknowledges one delivery by receipt. Idempotent: deleting
	// an already-deleted or expired receipt reports success.
	Delete(ctx context.Context, queueName, receipt string) bool

	// Stats returns best-effort queue statistics
	Stats(ctx context.Context, queueName string) Stats

	// Enabled reports whether the client can serve queue operations
	Enabled() bool

	// Mode reports how the client was constructed
	Mode() config.QueueMode
}

// SendOptions carries the optional parameters of Send
type SendOptions struct {
	// DelaySeconds postpones first delivery
	DelaySeconds int32

	// Attributes are merged over the standard attributes. String values
	// map to the String data type, numeric values to Number.
	Attributes map[string]any
}

// Stats holds best-effort queue statistics
type Stats struct {
	QueueName  string    `json:"queue_name"`
	Enabled    bool      `json:"enabled"`
	Mode       string    `json:"mode"`
	Available  int64     `json:"messages_available"`
	InFlight   int64     `json:"messages_in_flight"`
	Delayed    int64     `json:"messages_delayed"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	ModifiedAt time.Time `json:"modified_at,omitempty"`
}

// Attribute is a backend-independent typed message attribute
type Attribute struct {
	DataType string
	Value    string
}

// prepareAttributes merges caller attributes over the standard
// Source/Timestamp/MessageType set and types each value.
// Unsupported value types are dropped.
func prepareAttributes(attrs map[string]any) map[string]Attribute {
	prepared := map[string]Attribute{
		"Source":      {DataType: "String", Value: SourceAttribute},
		"Timestamp":   {DataType: "String", Value: utils.FormatTimestamp(utils.NowUTC())},
		"MessageType": {DataType: "String", Value: "task"},
	}

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			prepared[key] = Attribute{DataType: "String", Value: v}
		case bool:
			prepared[key] = Attribute{DataType: "String", Value: fmt.Sprintf("%t", v)}
		case int:
			prepared[key] = Attribute{DataType: "Number", Value: fmt.Sprintf("%d", v)}
		case int32:
			prepared[key] = Attribute{DataType: "Number", Value: fmt.Sprintf("%d", v)}
		case int64:
			prepared[key] = Attribute{DataType: "Number", Value: fmt.Sprintf("%d", v)}
		case float64:
			prepared[key] = Attribute{DataType: "Number", Value: fmt.Sprintf("%g", v)}
		}
	}

	return prepared
}

// DisabledClient is the nil-object used when queue credentials were
// never configured. Send surfaces the "not configured" condition;
// everything else degrades quietly.
type DisabledClient struct {
	logger *slog.Logger
}

// NewDisabledClient creates a client for the disabled mode
func NewDisabledClient(logger *slog.Logger) *DisabledClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &DisabledClient{logger: logger.With("component", "queue_client", "mode", "disabled")}
}

func (c *DisabledClient) Send(ctx context.Context, queueName string, body any, opts SendOptions) (string, error) {
	return "", domain.ErrQueueDisabled
}

func (c *DisabledClient) Receive(ctx context.Context, queueName string, maxMessages int32, waitTime time.Duration) []Message {
	c.logger.Warn("Receive called on disabled queue client", "queue", queueName)
	return nil
}

func (c *DisabledClient) Delete(ctx context.Context, queueName, receipt string) bool {
	return false
}

func (c *DisabledClient) Stats(ctx context.Context, queueName string) Stats {
	return Stats{QueueName: queueName, Enabled: false, Mode: string(config.QueueModeDisabled)}
}

func (c *DisabledClient) Enabled() bool { return false }

func (c *DisabledClient) Mode() config.QueueMode { return config.QueueModeDisabled }
