package leave

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDate          = errors.New("invalid leave date, expected YYYY-MM-DD")
	ErrTooFarInAdvance      = errors.New("leave date is more than 60 days in advance")
	ErrQuotaExceeded        = errors.New("leave request quota reached")
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrNotRequestOwner      = errors.New("leave request belongs to another user")
	ErrPastRequestImmutable = errors.New("past leave requests cannot be deleted")
)

// DuplicateRequestError is returned when a user already has a request for the
// submitted date. It carries the conflicting record so callers can show the
// user what already exists.
type DuplicateRequestError struct {
	Existing LeaveRequest
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("leave request for %s already exists", e.Existing.LeaveDate.Format("2006-01-02"))
}
