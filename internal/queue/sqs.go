package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/aws/smithy-go"

	"github.com/Hoddity/virt/internal/config"
	"github.com/Hoddity/virt/pkg/utils"
)

// SQSConfig holds configuration for the SQS-protocol queue client
type SQSConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Prefix          string
	Region          string

	// VisibilityTimeout is requested on every receive
	VisibilityTimeout time.Duration
}

// SQSClient implements Client against an SQS-protocol backend
// (Yandex Message Queue). The underlying SDK client is safe for
// concurrent use; no additional locking is needed.
type SQSClient struct {
	api               *sqs.Client
	prefix            string
	visibilityTimeout time.Duration
	logger            *slog.Logger
}

// NewSQSClient creates a queue client bound to the configured endpoint
func NewSQSClient(ctx context.Context, cfg SQSConfig, logger *slog.Logger) (*SQSClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.VisibilityTimeout == 0 {
		cfg.VisibilityTimeout = config.DefaultVisibilityTimeout
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load queue client config: %w", err)
	}

	api := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
	})

	return &SQSClient{
		api:               api,
		prefix:            strings.TrimSuffix(cfg.Prefix, "/"),
		visibilityTimeout: cfg.VisibilityTimeout,
		logger:            logger.With("component", "queue_client", "mode", "online"),
	}, nil
}

// Send serializes body and submits it with merged message attributes
func (c *SQSClient) Send(ctx context.Context, queueName string, body any, opts SendOptions) (string, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to serialize message body: %w", err)
	}

	out, err := c.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(c.queueURL(queueName)),
		MessageBody:       aws.String(string(encoded)),
		DelaySeconds:      opts.DelaySeconds,
		MessageAttributes: toSQSAttributes(prepareAttributes(opts.Attributes)),
	})
	if err != nil {
		c.logger.Error("Failed to send message", "queue", queueName, "error", err)
		return "", fmt.Errorf("failed to send message to queue %s: %w", queueName, err)
	}

	messageID := aws.ToString(out.MessageId)
	c.logger.Info("Message sent", "queue", queueName, "message_id", messageID)
	return messageID, nil
}

// Receive long-polls the backend. Transport failures and poll timeouts
// both yield an empty batch; failures are logged, not surfaced.
func (c *SQSClient) Receive(ctx context.Context, queueName string, maxMessages int32, waitTime time.Duration) []Message {
	out, err := c.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(c.queueURL(queueName)),
		MaxNumberOfMessages:   maxMessages,
		WaitTimeSeconds:       int32(waitTime.Seconds()),
		VisibilityTimeout:     int32(c.visibilityTimeout.Seconds()),
		MessageAttributeNames: []string{"All"},
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Error("Failed to receive messages", "queue", queueName, "error", err)
		}
		return nil
	}

	messages := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		messages = append(messages, Message{
			ID:         aws.ToString(m.MessageId),
			Body:       []byte(aws.ToString(m.Body)),
			Receipt:    aws.ToString(m.ReceiptHandle),
			Attributes: flattenSQSAttributes(m.MessageAttributes),
		})
	}

	if len(messages) > 0 {
		c.logger.Info("Received messages", "queue", queueName, "count", len(messages))
	}
	return messages
}

// Delete acknowledges one delivery. An invalid or expired receipt is
// treated as success; only transport failures report false.
func (c *SQSClient) Delete(ctx context.Context, queueName, receipt string) bool {
	_, err := c.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL(queueName)),
		ReceiptHandle: aws.String(receipt),
	})
	if err != nil {
		if isExpiredReceipt(err) {
			return true
		}
		c.logger.Error("Failed to delete message", "queue", queueName, "error", err)
		return false
	}
	return true
}

// Stats fetches approximate queue counters from the backend.
// Best-effort: failures yield a zeroed structure.
func (c *SQSClient) Stats(ctx context.Context, queueName string) Stats {
	stats := Stats{QueueName: queueName, Enabled: true, Mode: string(config.QueueModeOnline)}

	out, err := c.api.GetQueueAttributes(ctx, &sqs.GetQueueAttributesInput{
		QueueUrl: aws.String(c.queueURL(queueName)),
		AttributeNames: []types.QueueAttributeName{
			types.QueueAttributeNameApproximateNumberOfMessages,
			types.QueueAttributeNameApproximateNumberOfMessagesNotVisible,
			types.QueueAttributeNameApproximateNumberOfMessagesDelayed,
			types.QueueAttributeNameCreatedTimestamp,
			types.QueueAttributeNameLastModifiedTimestamp,
		},
	})
	if err != nil {
		c.logger.Error("Failed to get queue stats", "queue", queueName, "error", err)
		return stats
	}

	attrs := out.Attributes
	stats.Available = parseCount(attrs[string(types.QueueAttributeNameApproximateNumberOfMessages)])
	stats.InFlight = parseCount(attrs[string(types.QueueAttributeNameApproximateNumberOfMessagesNotVisible)])
	stats.Delayed = parseCount(attrs[string(types.QueueAttributeNameApproximateNumberOfMessagesDelayed)])
	stats.CreatedAt = utils.UnixSecondsToTime(attrs[string(types.QueueAttributeNameCreatedTimestamp)])
	stats.ModifiedAt = utils.UnixSecondsToTime(attrs[string(types.QueueAttributeNameLastModifiedTimestamp)])

	return stats
}

func (c *SQSClient) Enabled() bool { return true }

func (c *SQSClient) Mode() config.QueueMode { return config.QueueModeOnline }

// queueURL builds {prefix}/{queueName}
func (c *SQSClient) queueURL(queueName string) string {
	return c.prefix + "/" + queueName
}

func toSQSAttributes(attrs map[string]Attribute) map[string]types.MessageAttributeValue {
	converted := make(map[string]types.MessageAttributeValue, len(attrs))
	for key, attr := range attrs {
		converted[key] = types.MessageAttributeValue{
			DataType:    aws.String(attr.DataType),
			StringValue: aws.String(attr.Value),
		}
	}
	return converted
}

func flattenSQSAttributes(attrs map[string]types.MessageAttributeValue) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	flat := make(map[string]string, len(attrs))
	for key, attr := range attrs {
		flat[key] = aws.ToString(attr.StringValue)
	}
	return flat
}

func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// isExpiredReceipt reports whether err is the backend rejecting a
// receipt that no longer identifies an in-flight delivery.
func isExpiredReceipt(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "ReceiptHandleIsInvalid", "InvalidParameterValue":
		return true
	}
	return false
}
