/*
Package webhook serves token-scoped HTTP endpoints that feed inbound POSTs
into workflow nodes.

Every Register call creates a random uuid token and a route
POST <base>/<token>. The request body is decoded by content type: JSON
into Go values, url-encoded and multipart forms into a map, anything else
as text. Requests for tokens that are not registered get a 404.

# Usage

	srv := webhook.NewServer(logger, webhook.WithBasePath("/hooks"))
	token, path := srv.Register(func(ctx context.Context, d webhook.Delivery) {
		fmt.Println(d.Body)
	})
	defer srv.Unregister(token)

	if err := srv.Start(":8080"); err != nil {
		return err
	}
	defer srv.Shutdown(context.Background())
*/
package webhook
