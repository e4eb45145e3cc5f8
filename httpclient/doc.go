// Package httpclient provides the HTTP client cascade nodes use to reach
// their peers: JSON bodies, default headers, and classified errors that
// separate connection failures and timeouts from error statuses.
//
// The rest subpackage adds generic typed JSON calls on top of Client.
//
//	c, err := httpclient.New(httpclient.Config{Timeout: 10 * time.Second})
//	defer c.Close()
//
//	resp, err := c.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "http://nodeB:8080/cache/flush?cascade=false",
//	    Body:   payload,
//	})
package httpclient
