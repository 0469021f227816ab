// Package remote issues single HTTP calls against the marketing API.
//
// A Client knows the API base URL and, optionally, a static API key. Each
// Call is exactly one attempt: mutating methods (POST, PUT) send the payload
// form-encoded in the body, GET and DELETE carry it in the query string.
// When a Session is supplied its identifier pair travels as a cookie; API-key
// calls go through CallWithAPIKey and carry the key in the payload instead.
//
// # Usage
//
//	client, err := remote.NewClient(
//		"https://api.example.com",
//		logger,
//		remote.WithTimeout(30*time.Second),
//		remote.WithAPIKey(apiKey),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Call(ctx, http.MethodGet, "/tag", nil, &sess)
//
// # Error Handling
//
// Network failures and non-2xx answers are returned as *TransportError,
// which keeps the raw body so callers can look for an API error marker in it:
//
//	var te *remote.TransportError
//	if errors.As(err, &te) && te.IsUnauthorized() {
//		// Handle auth failure
//	}
package remote
