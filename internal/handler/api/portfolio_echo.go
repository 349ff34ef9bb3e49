package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"MBGate/internal/domain/models"
	"MBGate/internal/service/mercadobitcoin"
	xhttp "MBGate/pkg/http"
	xlogger "MBGate/pkg/logger"
)

// Portfolio is the use case surface the handler depends on.
type Portfolio interface {
	GetAccounts(ctx context.Context) ([]models.Account, error)
	GetPositions(ctx context.Context, accountID string, rng models.DateRange) ([]models.Position, error)
	Authorize(ctx context.Context, login, password string) (models.AuthToken, error)
}

// PortfolioEchoHandler exposes the brokerage reads over HTTP.
type PortfolioEchoHandler struct {
	logger    *xlogger.Logger
	portfolio Portfolio
}

func NewPortfolioEchoHandler(logger *xlogger.Logger, portfolio Portfolio) *PortfolioEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &PortfolioEchoHandler{logger: logger, portfolio: portfolio}
}

func (h *PortfolioEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/mercadobitcoin")
	g.GET("/accounts", h.Accounts)
	g.GET("/accounts/:accountId/positions", h.Positions)
	g.POST("/authorize", h.Authorize)
}

func (h *PortfolioEchoHandler) Accounts(c echo.Context) error {
	accounts, err := h.portfolio.GetAccounts(c.Request().Context())
	if err != nil {
		return h.fail(c, "accounts", err)
	}
	return xhttp.SuccessResponse(c, models.NewAccountResponses(accounts))
}

func (h *PortfolioEchoHandler) Positions(c echo.Context) error {
	req := &models.PositionsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	start, appErr := xhttp.QueryDate(c, "startDate")
	if appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}
	end, appErr := xhttp.QueryDate(c, "endDate")
	if appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}

	positions, err := h.portfolio.GetPositions(c.Request().Context(), req.AccountID, models.NewDateRange(start, end))
	if err != nil {
		return h.fail(c, "positions", err)
	}
	return xhttp.SuccessResponse(c, models.NewPositionResponses(positions))
}

func (h *PortfolioEchoHandler) Authorize(c echo.Context) error {
	req := &models.AuthorizeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	token, err := h.portfolio.Authorize(c.Request().Context(), req.Login, req.Password)
	if err != nil {
		return h.fail(c, "authorize", err)
	}
	return xhttp.SuccessResponse(c, models.NewAuthTokenResponse(token))
}

func (h *PortfolioEchoHandler) fail(c echo.Context, endpoint string, err error) error {
	appErr := toAppError(c.Request().Context(), err)
	fields := []xlogger.Field{
		xlogger.String("endpoint", endpoint),
		xlogger.Int("status", appErr.Status),
		xlogger.String("code", appErr.Code),
		xlogger.Error(err),
	}
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("portfolio usecase error", fields...)
	} else {
		h.logger.Warn("portfolio request rejected", fields...)
	}
	return xhttp.AppErrorResponse(c, appErr)
}

// toAppError maps brokerage failures to HTTP errors. Upstream bodies are
// logged, never echoed to the caller.
func toAppError(reqCtx context.Context, err error) *xhttp.AppError {
	var mbErr *mercadobitcoin.Error
	if !errors.As(err, &mbErr) {
		return xhttp.InternalError("internal error").WithError(err)
	}

	switch mbErr.Kind {
	case mercadobitcoin.ErrInvalidArgument:
		return xhttp.NewAppError("ERR_INVALID_ARGUMENT", mbErr.Field, mbErr.Msg, http.StatusBadRequest).WithError(err)
	case mercadobitcoin.ErrTransport:
		return transportAppError(mbErr).WithError(err)
	case mercadobitcoin.ErrProtocol:
		return xhttp.NewAppError("ERR_UPSTREAM_PROTOCOL", "", "upstream returned an unexpected response", http.StatusBadGateway).WithError(err)
	case mercadobitcoin.ErrCancelled:
		if reqCtx.Err() != nil {
			return xhttp.ClientClosedError("request cancelled").WithError(err)
		}
		return xhttp.GatewayTimeoutError("upstream did not answer in time").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}

func transportAppError(e *mercadobitcoin.Error) *xhttp.AppError {
	switch e.StatusCode {
	case 0:
		if errors.Is(e, context.DeadlineExceeded) {
			return xhttp.GatewayTimeoutError("upstream did not answer in time")
		}
		return xhttp.BadGatewayError("upstream unreachable")
	case http.StatusUnauthorized, http.StatusForbidden:
		return xhttp.NewAppError("ERR_UPSTREAM_UNAUTHORIZED", "", "upstream rejected the credentials", http.StatusUnauthorized).
			WithParam("upstream_status", e.StatusCode)
	case http.StatusNotFound:
		return xhttp.NewAppError("ERR_UPSTREAM_NOT_FOUND", "", "upstream resource not found", http.StatusNotFound).
			WithParam("upstream_status", e.StatusCode)
	default:
		return xhttp.BadGatewayError(fmt.Sprintf("upstream returned status %d", e.StatusCode)).
			WithParam("upstream_status", e.StatusCode)
	}
}
