package mercadobitcoin

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"MBGate/internal/domain/models"
	xhttp "MBGate/pkg/http"
	applogger "MBGate/pkg/logger"
)

// upstream is the request/response plumbing shared by Authenticator and Client.
type upstream struct {
	transport Transport
	options
}

func newUpstream(transport Transport, opts []Option) upstream {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return upstream{transport: transport, options: o}
}

// send performs one exchange and classifies any failure. On success the
// response status is 2xx.
func (u *upstream) send(ctx context.Context, op string, req *xhttp.RequestOptions) (*xhttp.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, u.fail(cancelledError(op, err))
	}

	start := time.Now()
	resp, err := u.transport.Do(ctx, req)
	elapsed := time.Since(start)
	var tooLarge *xhttp.BodyTooLargeError
	if errors.As(err, &tooLarge) {
		return nil, u.fail(u.oversized(op, req, tooLarge, elapsed))
	}
	if err != nil {
		e := classifyDoError(ctx, op, err)
		u.log.Warn("upstream request failed",
			applogger.String("op", op),
			applogger.String("method", req.Method),
			applogger.String("path", req.URL),
			applogger.Duration("duration_ms", elapsed),
			applogger.String("kind", string(e.Kind)),
			applogger.Error(err),
		)
		return nil, u.fail(e)
	}

	u.metrics.RecordUpstreamCall(op, resp.StatusCode, elapsed.Seconds())
	u.log.Debug("upstream request",
		applogger.String("op", op),
		applogger.String("method", req.Method),
		applogger.String("path", req.URL),
		applogger.Int("status", resp.StatusCode),
		applogger.Duration("duration_ms", elapsed),
	)

	if !resp.IsSuccess() {
		return nil, u.fail(transportError(op, resp.StatusCode, string(resp.Body)))
	}
	return resp, nil
}

// oversized classifies a response cut at the body limit: a 2xx payload
// cannot be trusted, so it is a protocol error; otherwise the upstream
// rejected the call and the truncated body is kept for diagnostics.
func (u *upstream) oversized(op string, req *xhttp.RequestOptions, e *xhttp.BodyTooLargeError, elapsed time.Duration) *Error {
	r := e.Response
	u.metrics.RecordUpstreamCall(op, r.StatusCode, elapsed.Seconds())
	u.log.Warn("upstream response too large",
		applogger.String("op", op),
		applogger.String("method", req.Method),
		applogger.String("path", req.URL),
		applogger.Int("status", r.StatusCode),
		applogger.Int64("limit", e.Limit),
	)
	if r.IsSuccess() {
		return protocolError(op, "response body too large", e)
	}
	te := transportError(op, r.StatusCode, string(r.Body))
	te.Msg = "body truncated"
	te.Err = e
	return te
}

// decode unmarshals a 2xx body into dest.
func (u *upstream) decode(op string, body []byte, dest interface{}) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return u.fail(protocolError(op, "malformed response body", err))
	}
	return nil
}

func (u *upstream) fail(e *Error) *Error {
	u.metrics.RecordError(string(e.Kind))
	return e
}

// authorize exchanges a login/password pair for a token. Used by both
// Authenticator.Authenticate and Client.Authorize.
func (u *upstream) authorize(ctx context.Context, op, login, password string) (models.AuthToken, error) {
	resp, err := u.send(ctx, op, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    authorizePath,
		Body:   authorizeRequest{Login: login, Password: password},
	})
	if err != nil {
		return models.AuthToken{}, err
	}

	var out authorizeResponse
	if err := u.decode(op, resp.Body, &out); err != nil {
		return models.AuthToken{}, err
	}

	token := out.toDomain()
	if !token.Valid() {
		return models.AuthToken{}, u.fail(protocolError(op, "response carries no access_token", nil))
	}
	return token, nil
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
