package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routeFunc func(e *echo.Echo)

func (f routeFunc) RegisterRoutes(e *echo.Echo) { f(e) }

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var env APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestServerHealth(t *testing.T) {
	s := NewServer(nil, nil, WithMetrics(false))

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServerHealth_Degraded(t *testing.T) {
	s := NewServer(nil, nil,
		WithMetrics(false),
		WithHealthCheck("clickhouse", func(context.Context) error { return errors.New("down") }),
	)

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"clickhouse":"down"`)
}

func TestAppErrorResponse_UsesStatus(t *testing.T) {
	s := NewServer(nil, routeFunc(func(e *echo.Echo) {
		e.GET("/boom", func(c echo.Context) error {
			return AppErrorResponse(c, BadGatewayError("upstream failed"))
		})
		e.GET("/gone", func(c echo.Context) error {
			return AppErrorResponse(c, ClientClosedError("cancelled"))
		})
		e.GET("/plain", func(c echo.Context) error {
			return AppErrorResponse(c, errors.New("oops"))
		})
	}), WithMetrics(false))

	cases := map[string]int{
		"/boom":  http.StatusBadGateway,
		"/gone":  StatusClientClosedRequest,
		"/plain": http.StatusInternalServerError,
	}
	for path, want := range cases {
		rec := httptest.NewRecorder()
		s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
		assert.Equal(t, want, decodeEnvelope(t, rec).Status, path)
	}
}

func TestRecoverMiddleware(t *testing.T) {
	s := NewServer(nil, routeFunc(func(e *echo.Echo) {
		e.GET("/panic", func(echo.Context) error { panic("kaboom") })
	}), WithMetrics(false))

	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestQueryDate(t *testing.T) {
	e := echo.New()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?startDate=2023-01-31", nil), httptest.NewRecorder())
	d, appErr := QueryDate(c, "startDate")
	require.Nil(t, appErr)
	require.NotNil(t, d)
	assert.Equal(t, "2023-01-31", d.Format("2006-01-02"))

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	d, appErr = QueryDate(c, "startDate")
	assert.Nil(t, appErr)
	assert.Nil(t, d)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/?endDate=31/01/2023", nil), httptest.NewRecorder())
	_, appErr = QueryDate(c, "endDate")
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "endDate", appErr.Field)
}
