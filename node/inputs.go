package node

import (
	"fmt"
	"maps"
	"net/url"
	"strings"

	"github.com/s0up4200/listnode/result"
)

// inputs merges the node config with a message payload; payload keys win
func inputs(cfg Config, payload map[string]any) map[string]any {
	in := make(map[string]any, len(cfg)+len(payload))
	maps.Copy(in, cfg)
	for k, v := range payload {
		if v != nil {
			in[k] = v
		}
	}
	return in
}

// str returns in[key] as a trimmed string
func str(in map[string]any, key string) string {
	v, ok := in[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(scalar(v))
}

// scalar renders numbers without a trailing .0 so ids survive JSON round trips
func scalar(v any) string {
	switch n := v.(type) {
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
	case float32:
		if n == float32(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
	}
	return fmt.Sprint(v)
}

// strs returns in[key] as a list. Strings are split on commas.
func strs(in map[string]any, key string) []string {
	var raw []string
	switch v := in[key].(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			raw = append(raw, scalar(item))
		}
	default:
		raw = []string{scalar(v)}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stringMap returns in[key] as a string map
func stringMap(in map[string]any, key string) map[string]string {
	out := make(map[string]string)
	switch v := in[key].(type) {
	case map[string]any:
		for k, val := range v {
			out[k] = scalar(val)
		}
	case map[string]string:
		maps.Copy(out, v)
	}
	return out
}

// required fails with InvalidInput naming the first missing key
func required(in map[string]any, keys ...string) *result.Failure {
	for _, key := range keys {
		if str(in, key) == "" {
			return result.Fail(result.InvalidInput, "Missing required input: %s", key)
		}
	}
	return nil
}

// form copies the listed keys that are set into url.Values
func form(in map[string]any, keys ...string) url.Values {
	values := url.Values{}
	for _, key := range keys {
		if s := str(in, key); s != "" {
			values.Set(key, s)
		}
	}
	return values
}

// expand replaces {key} placeholders in path with escaped inputs
func expand(path string, in map[string]any) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(path, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			break
		}
		b.WriteString(path[:start])
		b.WriteString(url.PathEscape(str(in, path[start+1:start+end])))
		path = path[start+end+1:]
	}
	b.WriteString(path)
	return b.String()
}
