package postgresql

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/database"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// Create implements leave.LeaveRequestRepository. The (username, leave_date)
// unique constraint surfaces concurrent duplicates as a pgconn error with
// SQLSTATE 23505; the service maps that to a duplicate rejection.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (id, username, leave_date, reason, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		uuid.NewString(),
		request.Username,
		request.LeaveDate,
		request.Reason,
	).Scan(&request.ID, &request.CreatedAt)

	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, username, leave_date, reason, created_at
		FROM leave_requests
		WHERE id = $1
	`

	var found leave.LeaveRequest
	err := q.QueryRow(ctx, query, id).Scan(
		&found.ID,
		&found.Username,
		&found.LeaveDate,
		&found.Reason,
		&found.CreatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return found, nil
}

// GetByUsernameAndDate implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByUsernameAndDate(ctx context.Context, username string, leaveDate time.Time) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, username, leave_date, reason, created_at
		FROM leave_requests
		WHERE username = $1 AND leave_date = $2
	`

	var found leave.LeaveRequest
	err := q.QueryRow(ctx, query, username, leaveDate).Scan(
		&found.ID,
		&found.Username,
		&found.LeaveDate,
		&found.Reason,
		&found.CreatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return found, nil
}

// CountByUsername implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) CountByUsername(ctx context.Context, username string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM leave_requests
		WHERE username = $1
	`

	var count int
	err := q.QueryRow(ctx, query, username).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// List implements leave.LeaveRequestRepository. Returns all leave requests
// across users, matching the index listing.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, username, leave_date, reason, created_at
		FROM leave_requests
		ORDER BY leave_date, username
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var lr leave.LeaveRequest
		err := rows.Scan(
			&lr.ID,
			&lr.Username,
			&lr.LeaveDate,
			&lr.Reason,
			&lr.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// Delete implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		DELETE FROM leave_requests
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}
