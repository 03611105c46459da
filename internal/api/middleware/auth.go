package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

type actionEnvelope struct {
	Action string `json:"action"`
	Token  string `json:"token"`
}

// Session reads {action, token} from the JSON body, validates the token for
// protected actions and injects the staff user into context. The body is
// restored so the handler can bind the full payload.
func Session(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			var env actionEnvelope
			if err := json.Unmarshal(body, &env); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
			}
			c.Set("action", env.Action)

			if _, public := PublicActions[env.Action]; public {
				return next(c)
			}
			if _, known := ActionFeatures[env.Action]; !known {
				// unknown actions are answered by the handler
				return next(c)
			}

			res, err := auth.Validate(req.Context(), env.Token)
			if err != nil {
				return err
			}
			if !res.Valid || res.User == nil {
				return domain.ErrSessionInvalid
			}

			c.Set("staff", res.User)
			c.Set("session_token", env.Token)
			return next(c)
		}
	}
}
