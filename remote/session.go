package remote

import "net/http"

// Session is the identifier pair returned by a successful login
type Session struct {
	ID   string `json:"sessionId"`
	Name string `json:"sessionName"`
}

// Valid reports whether both halves of the pair are present
func (s Session) Valid() bool {
	return s.ID != "" && s.Name != ""
}

// Cookie returns the cookie that authenticates a request
func (s Session) Cookie() *http.Cookie {
	return &http.Cookie{Name: s.Name, Value: s.ID}
}
