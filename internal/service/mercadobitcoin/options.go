package mercadobitcoin

import (
	"context"

	drepo "MBGate/internal/domain/repository"
	xhttp "MBGate/pkg/http"
	applogger "MBGate/pkg/logger"
)

const (
	authorizePath = "/api/v4/authorize"
	accountsPath  = "/api/v4/accounts"
)

const (
	opAuthenticate  = "authenticate"
	opAuthorize     = "authorize"
	opListAccounts  = "list_accounts"
	opListPositions = "list_positions"
)

// Transport performs one HTTP exchange and returns the fully read response.
// *xhttp.Client satisfies it; its base URL decides which host is called.
type Transport interface {
	Do(ctx context.Context, opts *xhttp.RequestOptions) (*xhttp.Response, error)
}

var _ Transport = (*xhttp.Client)(nil)

// Option configures an Authenticator or a Client.
type Option func(*options)

type options struct {
	log     *applogger.Logger
	metrics drepo.Metrics
}

func defaultOptions() options {
	return options{
		log:     applogger.Nop(),
		metrics: drepo.NopMetrics{},
	}
}

// WithLogger sets the logger. Only method, path, status and timing are logged.
func WithLogger(l *applogger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m drepo.Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}
