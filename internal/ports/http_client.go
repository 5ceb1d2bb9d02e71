package ports

import "net/http"

// HTTPClient is what the uplink needs from an HTTP client.
// *http.Client satisfies it; tests substitute failing transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
