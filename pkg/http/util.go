package http

import (
	"time"

	"github.com/labstack/echo/v4"

	xutil "MBGate/pkg/util"
)

// QueryDate reads an optional calendar-date query parameter. An absent or
// empty value yields nil; an unparseable one yields a 400 AppError naming it.
func QueryDate(c echo.Context, name string) (*time.Time, *AppError) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, ok := xutil.ParseDate(raw)
	if !ok {
		return nil, BadRequestErrorf("%s must be a date (YYYY-MM-DD or RFC3339)", name).WithField(name)
	}
	return &t, nil
}
