// Package http is the request fixture shared by every contract case: a client
// bound to one API host that attaches a fixed header set (the API key) to each
// request, ignores proxy environment variables, and records detailed timing.
//
// Basic Usage:
//
//	client := http.NewClient(
//	    http.WithBaseURL("https://reqres.in/api"),
//	    http.WithAPIKey("x-api-key", "reqres-free-v1"),
//	    http.WithTimeout(30*time.Second),
//	)
//
//	resp, err := client.Get(ctx, "/users", map[string]string{"page": "2"})
//	if err != nil {
//	    // transport failure: DNS, refused connection, timeout
//	}
//	fmt.Println(resp.StatusCode, resp.Elapsed)
//
// HTTP error statuses are not errors. A 404 comes back as a Response with
// StatusCode 404 and a nil error; only a failure to obtain any response at all
// yields a *TransportError.
package http
