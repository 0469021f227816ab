// Package session scopes one API operation to one short-lived login.
//
// Do logs in with the supplied credentials, runs the operation exactly once
// with the resulting session, and always logs out afterwards, whether the
// operation succeeded, failed or panicked. A session is never shared between
// operations and never outlives the operation that created it.
//
// # Usage
//
//	mgr := session.NewManager(client, logger)
//	res := session.Do(ctx, mgr, creds, func(ctx context.Context, s *remote.Session) result.Result[any] {
//		resp, err := client.Call(ctx, http.MethodGet, "/tag", nil, s)
//		return normalize.Response(resp, err, normalize.Value)
//	})
//
// Logout runs on a context detached from the caller's cancellation, so a
// cancelled caller still gets its session torn down. A failed logout is
// logged and never replaces the operation's own result.
package session
