package marketing

import (
	"context"
	"strings"

	"github.com/s0up4200/listnode/result"
)

// ResolveTags maps tag names or ids to tags from the cached dataset. Any
// unknown reference fails the whole resolution with InvalidInput.
func (a *API) ResolveTags(ctx context.Context, refs []string) result.Result[[]Tag] {
	res := a.Tags(ctx)
	if !res.IsOk() {
		return res
	}

	tags := res.Value()
	out := make([]Tag, 0, len(refs))
	for _, ref := range refs {
		tag, ok := findTag(tags, ref)
		if !ok {
			return result.Err[[]Tag](result.Fail(result.InvalidInput, "Unknown tag: %s", ref))
		}
		out = append(out, tag)
	}
	return result.Ok(out)
}

// ResolveFields rewrites a field name to value map into a field id to value
// map using the cached dataset
func (a *API) ResolveFields(ctx context.Context, values map[string]string) result.Result[map[string]string] {
	res := a.Fields(ctx)
	if !res.IsOk() {
		return result.Err[map[string]string](res.Failure())
	}

	fields := res.Value()
	out := make(map[string]string, len(values))
	for name, value := range values {
		field, ok := findField(fields, name)
		if !ok {
			return result.Err[map[string]string](result.Fail(result.InvalidInput, "Unknown field: %s", name))
		}
		out[field.ID] = value
	}
	return result.Ok(out)
}

// ResolveList finds a list by name or id in the cached dataset
func (a *API) ResolveList(ctx context.Context, ref string) result.Result[List] {
	res := a.Lists(ctx)
	if !res.IsOk() {
		return result.Err[List](res.Failure())
	}

	for _, l := range res.Value() {
		if l.ID == ref || strings.EqualFold(l.Name, ref) {
			return result.Ok(l)
		}
	}
	return result.Err[List](result.Fail(result.InvalidInput, "Unknown list: %s", ref))
}

func findTag(tags []Tag, ref string) (Tag, bool) {
	ref = strings.TrimSpace(ref)
	for _, t := range tags {
		if t.ID == ref || strings.EqualFold(t.Name, ref) {
			return t, true
		}
	}
	return Tag{}, false
}

func findField(fields []Field, ref string) (Field, bool) {
	ref = strings.TrimSpace(ref)
	for _, f := range fields {
		if f.ID == ref || strings.EqualFold(f.Name, ref) {
			return f, true
		}
	}
	return Field{}, false
}
