package node

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/webhook"
)

// webhookNode turns inbound webhook POSTs into messages
type webhookNode struct {
	server *webhook.Server
	status StatusFunc
	topic  string
	logger zerolog.Logger

	mu    sync.Mutex
	token string
	path  string
}

func (d Deps) newWebhook(cfg Config, status StatusFunc) (Node, error) {
	if d.Webhooks == nil {
		return nil, ErrNoWebhookServer
	}
	return &webhookNode{
		server: d.Webhooks,
		status: status,
		topic:  str(cfg, "topic"),
		logger: d.Logger.With().Str("node", "webhook").Logger(),
	}, nil
}

func (n *webhookNode) Type() string {
	return "webhook"
}

// Input passes messages through unchanged
func (n *webhookNode) Input(_ context.Context, msg Message, send SendFunc) {
	send(msg)
}

// Start registers a fresh token on the webhook server
func (n *webhookNode) Start(send SendFunc) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.token != "" {
		return nil
	}

	n.token, n.path = n.server.Register(func(_ context.Context, d webhook.Delivery) {
		msg := NewMessage(deliveryPayload(d))
		msg.Topic = n.topic
		n.logger.Debug().Str("msgid", msg.ID).Msg("Webhook delivered")
		send(msg)
	})

	n.status(normalize.Indicator{Fill: normalize.FillGreen, Shape: normalize.ShapeDot, Text: n.path})
	n.logger.Info().Str("path", n.path).Msg("Webhook registered")
	return nil
}

// Close removes the token, after which its path answers 404
func (n *webhookNode) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.token == "" {
		return nil
	}
	n.server.Unregister(n.token)
	n.token, n.path = "", ""
	n.status(normalize.Indicator{Fill: normalize.FillGrey, Shape: normalize.ShapeRing, Text: "closed"})
	return nil
}

// Path returns the registered route, or "" before Start
func (n *webhookNode) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// deliveryPayload uses an object body as the payload and wraps anything else
// under "body"
func deliveryPayload(d webhook.Delivery) map[string]any {
	if m, ok := d.Body.(map[string]any); ok {
		return m
	}
	return map[string]any{"body": d.Body}
}
