package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both the user id and
// the role must be present, their absence means the middleware did not run
// or the token carries no identity.
func ctxClaims(c echo.Context) (userID int64, role string, err error) {
	userID, _ = c.Get("user_id").(int64)
	role, _ = c.Get("role").(string)
	if userID == 0 || role == "" {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}
