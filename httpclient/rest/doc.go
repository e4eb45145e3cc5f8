// Package rest provides a JSON-focused REST client built on httpclient.
//
//	client, _ := rest.New(httpclient.Config{Timeout: 5 * time.Second})
//	defer client.Close()
//
//	// Typed call with any method
//	res, err := rest.Do[*Report](ctx, client, http.MethodPut, url, payload)
//
//	// Typed GET
//	user, err := rest.Get[User](ctx, client, "/users/123")
package rest
