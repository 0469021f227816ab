package node

import (
	"context"
	"net/http"

	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/result"
)

// endpoint describes a node that maps its inputs onto one API call
type endpoint struct {
	Type     string
	Method   string
	Path     string
	Required []string
	Params   []string
	Labels   normalize.Labels
}

var contactParams = []string{"email", "name", "phone", "status", "source"}

var endpoints = []endpoint{
	{
		Type:     "contact-create",
		Method:   http.MethodPost,
		Path:     "/subscriber",
		Required: []string{"email"},
		Params:   contactParams,
		Labels:   normalize.Labels{Success: "contact created", Failure: "create failed"},
	},
	{
		Type:     "contact-update",
		Method:   http.MethodPut,
		Path:     "/subscriber/{id}",
		Required: []string{"id"},
		Params:   contactParams,
		Labels:   normalize.Labels{Success: "contact updated", Failure: "update failed"},
	},
	{
		Type:     "contact-delete",
		Method:   http.MethodDelete,
		Path:     "/subscriber/{id}",
		Required: []string{"id"},
		Labels:   normalize.Labels{Success: "contact deleted", Failure: "delete failed"},
	},
	{
		Type:     "contact-unsubscribe",
		Method:   http.MethodPost,
		Path:     "/subscriber/{id}/unsubscribe",
		Required: []string{"id"},
		Labels:   normalize.Labels{Success: "contact unsubscribed", Failure: "unsubscribe failed"},
	},
}

type endpointNode struct {
	base
	ep   endpoint
	deps Deps
}

func (d Deps) endpointFactory(ep endpoint) Factory {
	return func(cfg Config, status StatusFunc) (Node, error) {
		return &endpointNode{
			base: newBase(d, ep.Type, cfg, status, ep.Labels),
			ep:   ep,
			deps: d,
		}, nil
	}
}

func (n *endpointNode) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, in map[string]any) result.Result[any] {
		if f := required(in, n.ep.Required...); f != nil {
			return invalid[any](f)
		}
		return n.deps.api(n.cfg).Raw(ctx, n.ep.Method, expand(n.ep.Path, in), form(in, n.ep.Params...))
	})
}
