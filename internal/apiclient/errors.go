package apiclient

import "fmt"

// NetworkError is a transport-level failure: no connectivity, timeout,
// connection refused. It is never retried automatically.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("apiclient, network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response from the remote service. 4xx means the
// caller sent something fixable, 5xx a transient remote fault.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apiclient, api error: status %d: %s", e.Status, e.Body)
}
