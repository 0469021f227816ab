package marketing

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Contact is a subscriber as returned by the API
type Contact struct {
	ID      string            `json:"id"`
	Email   string            `json:"email"`
	Name    string            `json:"name,omitempty"`
	Status  string            `json:"status,omitempty"`
	Tags    []string          `json:"tags,omitempty"`
	Lists   []string          `json:"lists,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Created time.Time         `json:"created,omitzero"`
}

// HasTag checks if the contact carries tag, ignoring case
func (c *Contact) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// InList checks if the contact is on the named or numbered list
func (c *Contact) InList(list string) bool {
	for _, l := range c.Lists {
		if strings.EqualFold(l, list) {
			return true
		}
	}
	return false
}

// Field returns a custom field value, or "" when unset
func (c *Contact) Field(name string) string {
	for k, v := range c.Fields {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Tag is a label that can be attached to contacts
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Field is a custom contact field definition
type Field struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// List is an opt-in list
type List struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers,omitempty"`
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// items returns the elements of a list body, accepting a bare array or an
// object wrapping it under "data" or "items"
func items(body []byte) []gjson.Result {
	root := gjson.ParseBytes(body)
	if root.IsObject() {
		for _, key := range []string{"data", "items"} {
			if inner := root.Get(key); inner.IsArray() {
				return inner.Array()
			}
		}
		return []gjson.Result{root}
	}
	return root.Array()
}

// names flattens an array of strings or of {id, name} objects
func names(r gjson.Result) []string {
	var out []string
	for _, item := range r.Array() {
		if item.IsObject() {
			if n := item.Get("name"); n.Exists() {
				out = append(out, n.String())
				continue
			}
			out = append(out, item.Get("id").String())
			continue
		}
		out = append(out, item.String())
	}
	return out
}

func decodeContact(r gjson.Result) Contact {
	c := Contact{
		ID:      r.Get("id").String(),
		Email:   r.Get("email").String(),
		Name:    r.Get("name").String(),
		Status:  r.Get("status").String(),
		Tags:    names(r.Get("tags")),
		Lists:   names(r.Get("lists")),
		Created: parseTime(firstOf(r, "created", "created_at", "createdAt").String()),
	}

	if fields := r.Get("fields"); fields.IsObject() {
		c.Fields = make(map[string]string)
		fields.ForEach(func(k, v gjson.Result) bool {
			c.Fields[k.String()] = v.String()
			return true
		})
	}
	return c
}

func firstOf(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func decodeTag(r gjson.Result) Tag {
	return Tag{ID: r.Get("id").String(), Name: r.Get("name").String()}
}

func decodeField(r gjson.Result) Field {
	return Field{ID: r.Get("id").String(), Name: r.Get("name").String(), Type: r.Get("type").String()}
}

func decodeList(r gjson.Result) List {
	return List{ID: r.Get("id").String(), Name: r.Get("name").String(), Subscribers: int(r.Get("subscribers").Int())}
}
