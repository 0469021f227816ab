package node

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/s0up4200/listnode/filter"
	"github.com/s0up4200/listnode/marketing"
	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/result"
)

type accountCheck struct {
	base
	deps Deps
}

func (d Deps) newAccountCheck(cfg Config, status StatusFunc) (Node, error) {
	return &accountCheck{
		base: newBase(d, "account-check", cfg, status, normalize.Labels{Success: "credentials valid", Failure: "login failed"}),
		deps: d,
	}, nil
}

func (n *accountCheck) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, _ map[string]any) result.Result[bool] {
		return n.deps.api(n.cfg).Check(ctx)
	})
}

type contactGet struct {
	base
	deps Deps
}

func (d Deps) newContactGet(cfg Config, status StatusFunc) (Node, error) {
	return &contactGet{
		base: newBase(d, "contact-get", cfg, status, normalize.Labels{Success: "contact found", Failure: "lookup failed"}),
		deps: d,
	}, nil
}

func (n *contactGet) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, in map[string]any) result.Result[marketing.Contact] {
		if f := required(in, "email"); f != nil {
			return invalid[marketing.Contact](f)
		}
		return n.deps.api(n.cfg).Contact(ctx, str(in, "email"))
	})
}

// contactSubscribe is the double opt-in subscription. It authenticates with
// the API key, so no session is opened.
type contactSubscribe struct {
	base
	deps Deps
}

func (d Deps) newContactSubscribe(cfg Config, status StatusFunc) (Node, error) {
	return &contactSubscribe{
		base: newBase(d, "contact-subscribe", cfg, status, normalize.Labels{Success: "subscription requested", Failure: "subscribe failed"}),
		deps: d,
	}, nil
}

func (n *contactSubscribe) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, in map[string]any) result.Result[any] {
		if f := required(in, "email", "list"); f != nil {
			return invalid[any](f)
		}
		payload := form(in, "email", "name", "list", "source")
		for name, value := range stringMap(in, "fields") {
			payload.Set("fields["+name+"]", value)
		}
		return n.deps.api(n.cfg).RawWithAPIKey(ctx, http.MethodPost, marketing.PathSubscriber+"/subscribe", payload)
	})
}

// contactSearch lists contacts and keeps those matching a filter
type contactSearch struct {
	base
	deps  Deps
	fixed filter.CompiledFilter
}

// SearchResult is the output of the contact-search node
type SearchResult struct {
	Total    int                 `json:"total"`
	Count    int                 `json:"count"`
	Contacts []marketing.Contact `json:"contacts"`
}

func (d Deps) newContactSearch(cfg Config, status StatusFunc) (Node, error) {
	n := &contactSearch{
		base: newBase(d, "contact-search", cfg, status, normalize.Labels{Success: "search done", Failure: "search failed"}),
		deps: d,
	}

	// a filter in the node config is checked once, at creation
	if name, expression := str(cfg, "filter"), str(cfg, "expression"); name != "" || expression != "" {
		f, err := d.Filters.Resolve(name, expression)
		if err != nil {
			return nil, err
		}
		n.fixed = f
	}
	return n, nil
}

func (n *contactSearch) Input(ctx context.Context, msg Message, send SendFunc) {
	run(ctx, &n.base, msg, send, func(ctx context.Context, in map[string]any) result.Result[SearchResult] {
		f := n.fixed
		if msg.Payload != nil && (msg.Payload["filter"] != nil || msg.Payload["expression"] != nil) {
			resolved, err := n.deps.Filters.Resolve(str(msg.Payload, "filter"), str(msg.Payload, "expression"))
			if err != nil {
				return invalid[SearchResult](result.Wrap(result.InvalidInput, err))
			}
			f = resolved
		}
		if f == nil {
			f, _ = n.deps.Filters.Resolve("", "")
		}

		query := url.Values{}
		for _, key := range []string{"status", "list", "tag", "limit", "offset"} {
			if v := str(in, key); v != "" {
				query.Set(key, v)
			}
		}

		res := n.deps.api(n.cfg).Contacts(ctx, query)
		if !res.IsOk() {
			return result.Err[SearchResult](res.Failure())
		}

		contacts := res.Value()
		matches, err := n.deps.Filters.Select(ctx, f, contacts)
		if err != nil {
			return result.Err[SearchResult](result.Wrap(result.RequestFailed, err))
		}

		if limit, err := strconv.Atoi(str(in, "max")); err == nil && limit >= 0 && limit < len(matches) {
			matches = matches[:limit]
		}
		return result.Ok(SearchResult{Total: len(contacts), Count: len(matches), Contacts: matches})
	})
}
