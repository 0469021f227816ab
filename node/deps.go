package node

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/s0up4200/listnode/filter"
	"github.com/s0up4200/listnode/marketing"
	"github.com/s0up4200/listnode/session"
	"github.com/s0up4200/listnode/webhook"
)

// DefaultConcurrency bounds the batch nodes when Deps leaves it unset
const DefaultConcurrency = 4

// ErrNoWebhookServer is returned when creating a webhook node without a server
var ErrNoWebhookServer = errors.New("webhook server not configured")

// Deps are the shared services nodes are built on
type Deps struct {
	API         *marketing.API
	Filters     *filter.Manager
	Webhooks    *webhook.Server
	Concurrency int
	Logger      zerolog.Logger
}

// DefaultRegistry registers every built-in node type
func DefaultRegistry(deps Deps) (*Registry, error) {
	if deps.Filters == nil {
		deps.Filters = filter.NewManager()
	}
	if deps.Concurrency <= 0 {
		deps.Concurrency = DefaultConcurrency
	}

	r := NewRegistry()
	for _, ep := range endpoints {
		if err := r.Register(ep.Type, deps.endpointFactory(ep)); err != nil {
			return nil, err
		}
	}

	custom := map[string]Factory{
		"account-check":     deps.newAccountCheck,
		"contact-get":       deps.newContactGet,
		"contact-subscribe": deps.newContactSubscribe,
		"contact-search":    deps.newContactSearch,
		"tag-list":          deps.newTagList,
		"tag-add":           deps.newTagAdd,
		"tag-remove":        deps.newTagRemove,
		"tag-batch":         deps.newTagBatch,
		"field-list":        deps.newFieldList,
		"field-set":         deps.newFieldSet,
		"list-list":         deps.newListList,
		"list-subscribe":    deps.newListSubscribe,
		"list-unsubscribe":  deps.newListUnsubscribe,
		"webhook":           deps.newWebhook,
	}
	for nodeType, f := range custom {
		if err := r.Register(nodeType, f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// api returns the API a node talks to. A node config with both login and
// password logs in with those instead of the shared credentials.
func (d Deps) api(cfg Config) *marketing.API {
	login, password := str(cfg, "login"), str(cfg, "password")
	if login != "" && password != "" {
		return d.API.WithCredentials(session.Credentials{Login: login, Password: password})
	}
	return d.API
}
