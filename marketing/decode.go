package marketing

import (
	"github.com/s0up4200/listnode/remote"
)

// DecodeContacts decodes a subscriber listing
func DecodeContacts(resp *remote.Response) ([]Contact, error) {
	raw := items(resp.Body)
	out := make([]Contact, 0, len(raw))
	for _, r := range raw {
		out = append(out, decodeContact(r))
	}
	return out, nil
}

// DecodeContact decodes a single subscriber, unwrapping a one-element
// listing or a "data" envelope
func DecodeContact(resp *remote.Response) (Contact, error) {
	raw := items(resp.Body)
	if len(raw) == 0 {
		return Contact{}, ErrContactNotFound
	}
	return decodeContact(raw[0]), nil
}

// DecodeTags decodes the tag listing
func DecodeTags(resp *remote.Response) ([]Tag, error) {
	raw := items(resp.Body)
	out := make([]Tag, 0, len(raw))
	for _, r := range raw {
		out = append(out, decodeTag(r))
	}
	return out, nil
}

// DecodeFields decodes the custom field listing
func DecodeFields(resp *remote.Response) ([]Field, error) {
	raw := items(resp.Body)
	out := make([]Field, 0, len(raw))
	for _, r := range raw {
		out = append(out, decodeField(r))
	}
	return out, nil
}

// DecodeLists decodes the opt-in list listing
func DecodeLists(resp *remote.Response) ([]List, error) {
	raw := items(resp.Body)
	out := make([]List, 0, len(raw))
	for _, r := range raw {
		out = append(out, decodeList(r))
	}
	return out, nil
}
