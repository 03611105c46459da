package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/barangay-connect/resident-services/internal/core/domain"
)

// RequireFeature enforces the feature permission of the current action.
// It must run after Session.
func RequireFeature() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			action, _ := c.Get("action").(string)
			feature, protected := ActionFeatures[action]
			if !protected {
				return next(c)
			}

			staff, _ := c.Get("staff").(*domain.StaffUser)
			if staff == nil || !domain.HasPermission(staff.Role, feature) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
