package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Hoddity/virt/internal/queue"
)

// HandlerFunc processes the payload of one typed message
type HandlerFunc func(ctx context.Context, data json.RawMessage) error

// Dispatcher routes messages to handlers by their envelope type.
// Registration happens once at startup, before the consumer runs, so
// the handler map needs no locking.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   *slog.Logger
}

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		logger:   logger.With("component", "dispatcher"),
	}
}

// Register binds a handler to a message type. A repeated type replaces
// the previous handler.
func (d *Dispatcher) Register(messageType string, handler HandlerFunc) {
	d.handlers[messageType] = handler
	d.logger.Debug("Registered message handler", "type", messageType)
}

// Types returns the registered message types
func (d *Dispatcher) Types() []string {
	types := make([]string, 0, len(d.handlers))
	for t := range d.handlers {
		types = append(types, t)
	}
	return types
}

// Dispatch decodes the message envelope and runs the matching handler.
// Messages with no registered handler are logged and dropped without
// error so the consumer acknowledges them; a poison message must not
// wedge the queue. Handler panics are converted to errors.
func (d *Dispatcher) Dispatch(ctx context.Context, msg queue.Message) (err error) {
	env := queue.DecodeEnvelope(msg.Body)

	handler, ok := d.handlers[env.Type]
	if !ok {
		d.logger.Warn("Dropping message of unknown type",
			"message_id", msg.ID,
			"type", env.Type,
		)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Handler panicked",
				"message_id", msg.ID,
				"type", env.Type,
				"panic", r,
			)
			err = fmt.Errorf("handler for %q panicked: %v", env.Type, r)
		}
	}()

	if err := handler(ctx, env.Data); err != nil {
		return fmt.Errorf("handler for %q failed: %w", env.Type, err)
	}
	return nil
}
