package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	GetByUsernameAndDate(ctx context.Context, username string, leaveDate time.Time) (LeaveRequest, error)
	CountByUsername(ctx context.Context, username string) (int, error)
	List(ctx context.Context) ([]LeaveRequest, error)
	Delete(ctx context.Context, id string) error
}
