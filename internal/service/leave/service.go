package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/validator"
	"github.com/leavedesk/leavedesk-backend-go/internal/repository/postgresql"
)

type LeaveServiceImpl struct {
	tx postgresql.Transactor
	leave.LeaveRequestRepository

	now func() time.Time
}

func NewLeaveService(tx postgresql.Transactor, leaveRequestRepository leave.LeaveRequestRepository) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepository,
		now:                    time.Now,
	}
}

// CreateRequest implements leave.LeaveService. It applies the admission rules
// in order: date parse, lookahead window, duplicate, quota, then a single
// insert. The duplicate and quota reads share a transaction with the insert,
// and the unique index on (username, leave_date) backs the duplicate check
// against concurrent submissions.
//
// A past or same-day leave date is accepted; only the forward window is
// bounded.
func (s *LeaveServiceImpl) CreateRequest(ctx context.Context, username string, req leave.CreateLeaveRequestRequest) (leave.LeaveRequest, int, error) {
	leaveDate, err := parseLeaveDate(req.LeaveDate)
	if err != nil {
		return leave.LeaveRequest{}, 0, leave.ErrInvalidDate
	}

	today := dateOnly(s.now())
	if daysBetween(today, leaveDate) > leave.MaxAdvanceDays {
		return leave.LeaveRequest{}, 0, leave.ErrTooFarInAdvance
	}

	var created leave.LeaveRequest
	var count int
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.LeaveRequestRepository.GetByUsernameAndDate(txCtx, username, leaveDate)
		if err == nil {
			return &leave.DuplicateRequestError{Existing: existing}
		}
		if err != pgx.ErrNoRows {
			return fmt.Errorf("failed to check existing leave request: %w", err)
		}

		count, err = s.LeaveRequestRepository.CountByUsername(txCtx, username)
		if err != nil {
			return fmt.Errorf("failed to count leave requests: %w", err)
		}
		if count >= leave.MaxStandingRequests {
			return leave.ErrQuotaExceeded
		}

		created, err = s.LeaveRequestRepository.Create(txCtx, leave.LeaveRequest{
			Username:  username,
			LeaveDate: leaveDate,
			Reason:    req.Reason,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		// A concurrent submission can win the insert between the duplicate
		// check and the commit; the unique index reports it as a unique
		// violation, which is still a duplicate for the caller.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if existing, getErr := s.LeaveRequestRepository.GetByUsernameAndDate(ctx, username, leaveDate); getErr == nil {
				return leave.LeaveRequest{}, 0, &leave.DuplicateRequestError{Existing: existing}
			}
		}
		return leave.LeaveRequest{}, 0, err
	}

	return created, count + 1, nil
}

// DeleteRequest implements leave.LeaveService. Only the owning user may
// delete, and only while the leave date is today or later. An identifier that
// is not a UUID cannot match any record and is reported as not found.
func (s *LeaveServiceImpl) DeleteRequest(ctx context.Context, username string, requestID string) error {
	if !validator.IsValidUUID(requestID) {
		return leave.ErrLeaveRequestNotFound
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.ErrLeaveRequestNotFound
		}
		return fmt.Errorf("failed to get leave request by ID: %w", err)
	}

	if request.Username != username {
		return leave.ErrNotRequestOwner
	}

	if dateOnly(request.LeaveDate).Before(dateOnly(s.now())) {
		return leave.ErrPastRequestImmutable
	}

	if err := s.LeaveRequestRepository.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	return nil
}

// ListRequests implements leave.LeaveService. Lists all requests across all
// users.
func (s *LeaveServiceImpl) ListRequests(ctx context.Context) ([]leave.LeaveRequest, error) {
	requests, err := s.LeaveRequestRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// CountForUser implements leave.LeaveService.
func (s *LeaveServiceImpl) CountForUser(ctx context.Context, username string) (int, error) {
	count, err := s.LeaveRequestRepository.CountByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to count leave requests: %w", err)
	}
	return count, nil
}

func parseLeaveDate(dateStr string) (time.Time, error) {
	date, ok := validator.IsValidDate(dateStr)
	if !ok {
		return time.Time{}, leave.ErrInvalidDate
	}
	return date, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole-day difference to - from. Both arguments are
// UTC midnights, so the division is exact.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
