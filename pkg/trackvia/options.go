package trackvia

import (
	"net/http"

	"github.com/MKhiriev/trackvia-go/internal/adapter"
	"github.com/MKhiriev/trackvia-go/internal/clock"
	"github.com/MKhiriev/trackvia-go/internal/logger"
	"github.com/rs/zerolog"
)

// Option customises a Client built by New.
type Option func(*options)

type options struct {
	logger         *logger.Logger
	httpClient     *http.Client
	onRefreshError func(error)

	clock     clock.Clock
	transport adapter.Transport
}

func defaultOptions() *options {
	return &options{
		logger: logger.Nop(),
		clock:  clock.System(),
	}
}

// WithLogger makes the client log through l. By default nothing is logged.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger.Logger{Logger: l}
	}
}

// WithHTTPClient sends every request through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithRefreshErrorHandler registers fn to receive background refresh
// failures. fn runs on the refresh goroutine and must not call Stop.
func WithRefreshErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onRefreshError = fn
	}
}

func withClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func withTransport(t adapter.Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}
