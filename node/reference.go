package node

import (
	"context"

	"github.com/s0up4200/listnode/marketing"
	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/result"
)

// referenceNode outputs one cached reference dataset
type referenceNode[T any] struct {
	base
	deps  Deps
	fetch func(api *marketing.API, ctx context.Context) result.Result[T]
}

func (n *referenceNode[T]) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, _ map[string]any) result.Result[T] {
		return n.fetch(n.deps.api(n.cfg), ctx)
	})
}

func (d Deps) newTagList(cfg Config, status StatusFunc) (Node, error) {
	return &referenceNode[[]marketing.Tag]{
		base:  newBase(d, "tag-list", cfg, status, normalize.Labels{Success: "tags loaded", Failure: "tag list failed"}),
		deps:  d,
		fetch: (*marketing.API).Tags,
	}, nil
}

func (d Deps) newFieldList(cfg Config, status StatusFunc) (Node, error) {
	return &referenceNode[[]marketing.Field]{
		base:  newBase(d, "field-list", cfg, status, normalize.Labels{Success: "fields loaded", Failure: "field list failed"}),
		deps:  d,
		fetch: (*marketing.API).Fields,
	}, nil
}

func (d Deps) newListList(cfg Config, status StatusFunc) (Node, error) {
	return &referenceNode[[]marketing.List]{
		base:  newBase(d, "list-list", cfg, status, normalize.Labels{Success: "lists loaded", Failure: "list list failed"}),
		deps:  d,
		fetch: (*marketing.API).Lists,
	}, nil
}
