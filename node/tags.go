package node

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/listnode/marketing"
	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/result"
)

func tagPayload(tags []marketing.Tag) url.Values {
	payload := url.Values{}
	for _, t := range tags {
		payload.Add("tag", t.ID)
	}
	return payload
}

type tagAdd struct {
	base
	deps Deps
}

func (d Deps) newTagAdd(cfg Config, status StatusFunc) (Node, error) {
	return &tagAdd{
		base: newBase(d, "tag-add", cfg, status, normalize.Labels{Success: "tags added", Failure: "tagging failed"}),
		deps: d,
	}, nil
}

func (n *tagAdd) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, in map[string]any) result.Result[any] {
		if f := required(in, "id"); f != nil {
			return invalid[any](f)
		}
		names := strs(in, "tags")
		if len(names) == 0 {
			return invalid[any](result.Fail(result.InvalidInput, "Missing required input: tags"))
		}

		api := n.deps.api(n.cfg)
		tags := api.ResolveTags(ctx, names)
		if !tags.IsOk() {
			return result.Err[any](tags.Failure())
		}
		return api.Raw(ctx, http.MethodPost, expand("/subscriber/{id}/tag", in), tagPayload(tags.Value()))
	})
}

type tagRemove struct {
	base
	deps Deps
}

func (d Deps) newTagRemove(cfg Config, status StatusFunc) (Node, error) {
	return &tagRemove{
		base: newBase(d, "tag-remove", cfg, status, normalize.Labels{Success: "tag removed", Failure: "untagging failed"}),
		deps: d,
	}, nil
}

func (n *tagRemove) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, in map[string]any) result.Result[any] {
		if f := required(in, "id", "tag"); f != nil {
			return invalid[any](f)
		}

		api := n.deps.api(n.cfg)
		tags := api.ResolveTags(ctx, []string{str(in, "tag")})
		if !tags.IsOk() {
			return result.Err[any](tags.Failure())
		}
		path := fmt.Sprintf("/subscriber/%s/tag/%s", url.PathEscape(str(in, "id")), url.PathEscape(tags.Value()[0].ID))
		return api.Raw(ctx, http.MethodDelete, path, nil)
	})
}

// tagBatch tags many contacts, one session per contact, with bounded
// concurrency
type tagBatch struct {
	base
	deps Deps
}

// BatchResult is the output of the tag-batch node
type BatchResult struct {
	Tagged []string `json:"tagged"`
	Tags   []string `json:"tags"`
}

func (d Deps) newTagBatch(cfg Config, status StatusFunc) (Node, error) {
	return &tagBatch{
		base: newBase(d, "tag-batch", cfg, status, normalize.Labels{Success: "contacts tagged", Failure: "batch tagging failed"}),
		deps: d,
	}, nil
}

func (n *tagBatch) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, in map[string]any) result.Result[BatchResult] {
		ids := strs(in, "ids")
		names := strs(in, "tags")
		if len(ids) == 0 {
			return invalid[BatchResult](result.Fail(result.InvalidInput, "Missing required input: ids"))
		}
		if len(names) == 0 {
			return invalid[BatchResult](result.Fail(result.InvalidInput, "Missing required input: tags"))
		}

		api := n.deps.api(n.cfg)
		tags := api.ResolveTags(ctx, names)
		if !tags.IsOk() {
			return result.Err[BatchResult](tags.Failure())
		}
		payload := tagPayload(tags.Value())

		// indexed by position so the reported failure follows input order
		failures := make([]*result.Failure, len(ids))

		var g errgroup.Group
		g.SetLimit(n.deps.Concurrency)

		for i, id := range ids {
			g.Go(func() error {
				res := api.Raw(ctx, http.MethodPost, "/subscriber/"+url.PathEscape(id)+"/tag", payload)
				if f := res.Failure(); f != nil {
					n.logger.Warn().Str("id", id).Str("error", f.Message).Msg("Failed to tag contact")
					failures[i] = f
				}
				return nil
			})
		}
		_ = g.Wait()

		var first *result.Failure
		failed := 0
		for _, f := range failures {
			if f == nil {
				continue
			}
			if first == nil {
				first = f
			}
			failed++
		}
		if first != nil {
			return result.Err[BatchResult](result.Fail(first.Kind,
				"Tagging failed for %d of %d contacts: %s", failed, len(ids), first.Message))
		}

		out := BatchResult{Tagged: ids}
		for _, t := range tags.Value() {
			out.Tags = append(out.Tags, t.Name)
		}
		return result.Ok(out)
	})
}
