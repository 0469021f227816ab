package node

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/result"
)

type listSubscribe struct {
	base
	deps Deps
}

func (d Deps) newListSubscribe(cfg Config, status StatusFunc) (Node, error) {
	return &listSubscribe{
		base: newBase(d, "list-subscribe", cfg, status, normalize.Labels{Success: "added to list", Failure: "list subscribe failed"}),
		deps: d,
	}, nil
}

func (n *listSubscribe) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, in map[string]any) result.Result[any] {
		if f := required(in, "list", "email"); f != nil {
			return invalid[any](f)
		}

		api := n.deps.api(n.cfg)
		list := api.ResolveList(ctx, str(in, "list"))
		if !list.IsOk() {
			return result.Err[any](list.Failure())
		}
		path := fmt.Sprintf("/list/%s/subscriber", url.PathEscape(list.Value().ID))
		return api.Raw(ctx, http.MethodPost, path, form(in, "email", "name"))
	})
}

type listUnsubscribe struct {
	base
	deps Deps
}

func (d Deps) newListUnsubscribe(cfg Config, status StatusFunc) (Node, error) {
	return &listUnsubscribe{
		base: newBase(d, "list-unsubscribe", cfg, status, normalize.Labels{Success: "removed from list", Failure: "list unsubscribe failed"}),
		deps: d,
	}, nil
}

func (n *listUnsubscribe) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, in map[string]any) result.Result[any] {
		if f := required(in, "list", "id"); f != nil {
			return invalid[any](f)
		}

		api := n.deps.api(n.cfg)
		list := api.ResolveList(ctx, str(in, "list"))
		if !list.IsOk() {
			return result.Err[any](list.Failure())
		}
		path := fmt.Sprintf("/list/%s/subscriber/%s", url.PathEscape(list.Value().ID), url.PathEscape(str(in, "id")))
		return api.Raw(ctx, http.MethodDelete, path, nil)
	})
}
