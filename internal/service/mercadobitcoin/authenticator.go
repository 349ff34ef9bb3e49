package mercadobitcoin

import (
	"context"
	"strings"

	"MBGate/internal/domain/models"
	dsvc "MBGate/internal/domain/service"
)

// Authenticator exchanges the configured credentials for a bearer token.
// It keeps no token between calls and is safe for concurrent use.
type Authenticator struct {
	upstream
	creds models.Credentials
}

var _ dsvc.TokenSource = (*Authenticator)(nil)

// NewAuthenticator fails with ErrConfiguration when the transport is nil or
// either credential is blank.
func NewAuthenticator(transport Transport, creds models.Credentials, opts ...Option) (*Authenticator, error) {
	if transport == nil {
		return nil, configError("transport", "transport is required")
	}
	if missing := creds.Missing(); len(missing) > 0 {
		return nil, configError(strings.Join(missing, ","), "credentials are not configured")
	}
	return &Authenticator{
		upstream: newUpstream(transport, opts),
		creds:    creds,
	}, nil
}

// Authenticate performs one authorize call with the configured credentials.
func (a *Authenticator) Authenticate(ctx context.Context) (models.AuthToken, error) {
	return a.authorize(ctx, opAuthenticate, a.creds.Identifier, a.creds.Secret)
}
