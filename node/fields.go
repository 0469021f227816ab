package node

import (
	"context"
	"net/http"
	"net/url"

	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/result"
)

type fieldSet struct {
	base
	deps Deps
}

func (d Deps) newFieldSet(cfg Config, status StatusFunc) (Node, error) {
	return &fieldSet{
		base: newBase(d, "field-set", cfg, status, normalize.Labels{Success: "fields updated", Failure: "field update failed"}),
		deps: d,
	}, nil
}

func (n *fieldSet) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, in map[string]any) result.Result[any] {
		if f := required(in, "id"); f != nil {
			return invalid[any](f)
		}
		values := stringMap(in, "fields")
		if len(values) == 0 {
			return invalid[any](result.Fail(result.InvalidInput, "Missing required input: fields"))
		}

		api := n.deps.api(n.cfg)
		byID := api.ResolveFields(ctx, values)
		if !byID.IsOk() {
			return result.Err[any](byID.Failure())
		}

		payload := url.Values{}
		for id, value := range byID.Value() {
			payload.Set("fields["+id+"]", value)
		}
		return api.Raw(ctx, http.MethodPut, expand("/subscriber/{id}/field", in), payload)
	})
}
