package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/barangay-connect/resident-services/internal/core/domain"
	"github.com/barangay-connect/resident-services/internal/core/ports"
)

// ctxStaff returns the staff user injected by the Session middleware. Its
// absence means the middleware did not run, which is treated as an invalid session.
func ctxStaff(c echo.Context) (*domain.StaffUser, error) {
	staff, _ := c.Get("staff").(*domain.StaffUser)
	if staff == nil {
		return nil, domain.ErrSessionInvalid
	}
	return staff, nil
}

func staffIdentity(u *domain.StaffUser) ports.StaffIdentity {
	return ports.StaffIdentity{ID: u.ID, Username: u.Username, Role: u.Role}
}
