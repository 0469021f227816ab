/*
Package marketing provides typed access to the marketing API: subscribers
(contacts), tags, custom fields and opt-in lists.

Every method opens its own session, performs one call and logs out again.
Tags, fields and lists are reference data and are served from a
refcache.Cache for the configured ttl.

# Usage

	client, err := remote.NewClient("https://api.example.com", logger)
	if err != nil {
		return err
	}
	sessions := session.NewManager(client, logger)
	api := marketing.New(sessions, session.Credentials{Login: "me", Password: "secret"})

	res := api.Contact(ctx, "jane@example.com")
	if !res.IsOk() {
		return res.Failure()
	}

# Name resolution

Nodes accept tag, field and list names. ResolveTags, ResolveFields and
ResolveList map them to ids through the cached datasets and fail with
result.InvalidInput for names the account does not know.
*/
package marketing
