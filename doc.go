// Package mendeley provides a Go client for the Mendeley REST API.
//
// Every call is authorized with an OAuth2 bearer token taken from an
// [AuthProvider]. Expired tokens are refreshed when the provider supports
// it; otherwise the provider is asked to re-authenticate and the call fails
// with [ErrAuthenticationRequired].
//
// Basic usage:
//
//	provider, err := auth.NewImplicitGrant(auth.ImplicitConfig{
//	    ClientID:    "123",
//	    RedirectURL: "http://localhost:8111/callback",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := mendeley.New(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := client.Documents.List(ctx, &mendeley.DocumentListOptions{Limit: 20})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	var docs []map[string]any
//	if err := res.Decode(&docs); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(client.Documents.Count(), "documents")
//
//	// Walk the remaining pages. A page without a Link header leaves the
//	// stored links as they were, so check each response for a next link.
//	for _, more := res.Headers.Link(mendeley.RelNext); more; _, more = res.Headers.Link(mendeley.RelNext) {
//	    res, err = client.Documents.NextPage(ctx)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    ...
//	}
package mendeley
