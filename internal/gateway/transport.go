package gateway

import (
	"net/http"

	"golang.org/x/time/rate"
)

// pacedTransport spaces outgoing requests to at most rps per second.
type pacedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func newPacedTransport(base http.RoundTripper, rps float64) *pacedTransport {
	return &pacedTransport{base: base, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
