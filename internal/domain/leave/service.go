package leave

import "context"

// LeaveService applies the admission rules for leave-request actions. The
// acting username is always an explicit parameter, taken from the verified
// token at the handler.
type LeaveService interface {
	CreateRequest(ctx context.Context, username string, req CreateLeaveRequestRequest) (LeaveRequest, int, error)
	DeleteRequest(ctx context.Context, username string, requestID string) error
	ListRequests(ctx context.Context) ([]LeaveRequest, error)
	CountForUser(ctx context.Context, username string) (int, error)
}
