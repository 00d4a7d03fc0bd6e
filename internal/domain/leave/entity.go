package leave

import "time"

const (
	// MaxAdvanceDays is the lookahead window for a leave date. A request for
	// exactly MaxAdvanceDays from today is allowed; one day further is not.
	MaxAdvanceDays = 60

	// MaxStandingRequests is the maximum number of leave requests a single
	// user may have at any time.
	MaxStandingRequests = 10
)

// LeaveRequest represents one day of requested leave. Ownership is by
// username string match, not by user id.
type LeaveRequest struct {
	ID        string
	Username  string
	LeaveDate time.Time
	Reason    string
	CreatedAt time.Time
}
