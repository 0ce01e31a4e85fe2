// Package httpclient is the outbound HTTP client used for upstream API
// calls. Requests go through an optional circuit breaker and retry loop
// from the resilience package; non-2xx responses come back as a classified
// *Error that ToAppError maps onto the application error codes.
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "https://api.example.com/graphql",
//	    Timeout:        5 * time.Second,
//	    Retry:          httpclient.DefaultRetryConfig(),
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("upstream"),
//	})
//
//	resp, err := httpclient.PostJSON[graphQLResponse](ctx, client, "", query,
//	    httpclient.WithBearer(token))
package httpclient
