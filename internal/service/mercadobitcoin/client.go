package mercadobitcoin

import (
	"context"
	"net/url"

	"MBGate/internal/domain/models"
	dsvc "MBGate/internal/domain/service"
	xhttp "MBGate/pkg/http"
	"MBGate/pkg/util"
)

// Client performs authenticated reads against the brokerage API. The token
// is supplied per call; Client holds no per-call state.
type Client struct {
	upstream
}

var _ dsvc.BrokerAPI = (*Client)(nil)

// NewClient fails with ErrConfiguration when transport is nil.
func NewClient(transport Transport, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, configError("transport", "transport is required")
	}
	return &Client{upstream: newUpstream(transport, opts)}, nil
}

// ListAccounts returns every account visible to token.
func (c *Client) ListAccounts(ctx context.Context, token string) ([]models.Account, error) {
	if util.IsBlank(token) {
		return nil, c.fail(invalidArgument(opListAccounts, "token", "token is required"))
	}

	resp, err := c.send(ctx, opListAccounts, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     accountsPath,
		Headers: bearer(token),
	})
	if err != nil {
		return nil, err
	}

	var dtos []accountDTO
	if err := c.decode(opListAccounts, resp.Body, &dtos); err != nil {
		return nil, err
	}

	accounts := make([]models.Account, 0, len(dtos))
	for _, d := range dtos {
		accounts = append(accounts, d.toDomain())
	}
	return accounts, nil
}

// ValidatePositionsArgs checks ListPositions arguments other than the token,
// in the order ListPositions applies them.
func ValidatePositionsArgs(accountID string, rng models.DateRange) error {
	if e := validatePositionsArgs(accountID, rng); e != nil {
		return e
	}
	return nil
}

func validatePositionsArgs(accountID string, rng models.DateRange) *Error {
	if util.IsBlank(accountID) {
		return invalidArgument(opListPositions, "accountId", "account id is required")
	}
	if rng.Inverted() {
		return invalidArgument(opListPositions, "date range", "start date must not be after end date")
	}
	return nil
}

// ListPositions returns the positions of accountID, optionally bounded by rng.
func (c *Client) ListPositions(ctx context.Context, token, accountID string, rng models.DateRange) ([]models.Position, error) {
	if util.IsBlank(token) {
		return nil, c.fail(invalidArgument(opListPositions, "token", "token is required"))
	}
	if e := validatePositionsArgs(accountID, rng); e != nil {
		return nil, c.fail(e)
	}

	resp, err := c.send(ctx, opListPositions, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         accountsPath + "/" + url.PathEscape(accountID) + "/positions",
		Headers:     bearer(token),
		QueryParams: rangeParams(rng),
	})
	if err != nil {
		return nil, err
	}

	var dtos []positionDTO
	if err := c.decode(opListPositions, resp.Body, &dtos); err != nil {
		return nil, err
	}

	positions := make([]models.Position, 0, len(dtos))
	for _, d := range dtos {
		positions = append(positions, d.toDomain())
	}
	return positions, nil
}

// Authorize exchanges caller-supplied credentials for a token.
func (c *Client) Authorize(ctx context.Context, login, password string) (models.AuthToken, error) {
	if util.IsBlank(login) {
		return models.AuthToken{}, c.fail(invalidArgument(opAuthorize, "login", "login is required"))
	}
	if util.IsBlank(password) {
		return models.AuthToken{}, c.fail(invalidArgument(opAuthorize, "password", "password is required"))
	}
	return c.authorize(ctx, opAuthorize, login, password)
}

// start_date always precedes end_date.
func rangeParams(rng models.DateRange) []xhttp.Param {
	var params []xhttp.Param
	if rng.Start != nil {
		params = append(params, xhttp.Param{Key: "start_date", Value: util.FormatDate(*rng.Start)})
	}
	if rng.End != nil {
		params = append(params, xhttp.Param{Key: "end_date", Value: util.FormatDate(*rng.End)})
	}
	return params
}
