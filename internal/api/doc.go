// Package api provides the request dispatcher used by the Mendeley client.
// It attaches bearer tokens to outgoing calls, resends on gateway timeouts,
// refreshes tokens on 401 and follows 201 redirects for asynchronous
// resource creation.
//
// # Dispatcher Creation
//
// [New] validates [Settings]. An [AuthProvider] is required; without one
// New returns an error matching [apierrors.ErrConfiguration] and no request
// is ever sent.
//
// # Calling
//
// [Dispatcher.Send] blocks until the call settles. [Dispatcher.Go] returns a
// [Call] immediately; its Progress channel reports upload progress and Wait
// returns the outcome. Every retry, refresh and redirect of a call runs
// sequentially under the same call ID.
//
// # Retry Behavior
//
// Only 504 Gateway Timeout is retried, up to [Settings.MaxRetries] times.
// Each resend fetches the token again. A 401, or a failure without any HTTP
// response, asks the provider to refresh the token once; if that fails the
// provider is told to re-authenticate and the call fails with
// [apierrors.ErrAuthenticationRequired].
//
// # Headers
//
// Successful responses carry [ExtractedHeaders]. Link headers are parsed
// from every Link line of the response:
//
//	res, err := d.Send(ctx, api.NewRequest(http.MethodGet, "https://api.mendeley.com/documents"))
//	if err != nil {
//	    return err
//	}
//	if next, ok := res.Headers.Link("next"); ok {
//	    // fetch next page
//	}
package api
