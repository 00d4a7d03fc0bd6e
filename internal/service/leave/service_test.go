package leave

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransactor runs the function directly; the in-memory repository has no
// transactions to scope.
type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLeaveRequestRepository struct {
	requests   map[string]leave.LeaveRequest
	createErr  error
	getByIDErr error

	// raceWinner simulates a concurrent submission landing between the
	// duplicate check and the insert: it appears in storage the moment the
	// insert fails.
	raceWinner *leave.LeaveRequest
}

func newFakeLeaveRequestRepository() *fakeLeaveRequestRepository {
	return &fakeLeaveRequestRepository{requests: make(map[string]leave.LeaveRequest)}
}

func (f *fakeLeaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	if f.createErr != nil {
		if f.raceWinner != nil {
			f.requests[f.raceWinner.ID] = *f.raceWinner
		}
		return leave.LeaveRequest{}, f.createErr
	}
	request.ID = uuid.NewString()
	request.CreatedAt = time.Now()
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeLeaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if f.getByIDErr != nil {
		return leave.LeaveRequest{}, f.getByIDErr
	}
	lr, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, pgx.ErrNoRows
	}
	return lr, nil
}

func (f *fakeLeaveRequestRepository) GetByUsernameAndDate(ctx context.Context, username string, leaveDate time.Time) (leave.LeaveRequest, error) {
	for _, lr := range f.requests {
		if lr.Username == username && lr.LeaveDate.Equal(leaveDate) {
			return lr, nil
		}
	}
	return leave.LeaveRequest{}, pgx.ErrNoRows
}

func (f *fakeLeaveRequestRepository) CountByUsername(ctx context.Context, username string) (int, error) {
	count := 0
	for _, lr := range f.requests {
		if lr.Username == username {
			count++
		}
	}
	return count, nil
}

func (f *fakeLeaveRequestRepository) List(ctx context.Context) ([]leave.LeaveRequest, error) {
	var all []leave.LeaveRequest
	for _, lr := range f.requests {
		all = append(all, lr)
	}
	return all, nil
}

func (f *fakeLeaveRequestRepository) Delete(ctx context.Context, id string) error {
	if _, ok := f.requests[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(f.requests, id)
	return nil
}

var testToday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newTestService(repo *fakeLeaveRequestRepository) *LeaveServiceImpl {
	svc := NewLeaveService(fakeTransactor{}, repo)
	// Handlers run at arbitrary wall-clock times; tests pin today.
	svc.now = func() time.Time { return testToday.Add(13*time.Hour + 45*time.Minute) }
	return svc
}

func dateStr(daysFromToday int) string {
	return testToday.AddDate(0, 0, daysFromToday).Format("2006-01-02")
}

func TestCreateRequest_Success(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	svc := newTestService(repo)

	created, count, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{
		LeaveDate: dateStr(5),
		Reason:    "Vacation",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.Username)
	assert.Equal(t, "Vacation", created.Reason)
	assert.Equal(t, 1, count)

	stored, err := svc.CountForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, stored)
}

func TestCreateRequest_EmptyReasonAllowed(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeLeaveRequestRepository())

	created, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{
		LeaveDate: dateStr(1),
	})

	require.NoError(t, err)
	assert.Empty(t, created.Reason)
}

func TestCreateRequest_LongReasonAllowed(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeLeaveRequestRepository())

	longReason := strings.Repeat("family matters ", 200)
	created, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{
		LeaveDate: dateStr(3),
		Reason:    longReason,
	})

	require.NoError(t, err)
	assert.Equal(t, longReason, created.Reason)
}

func TestCreateRequest_InvalidDate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeLeaveRequestRepository())

	cases := []string{"", "not-a-date", "2025/03/10", "2025-13-40", "10-03-2025"}
	for _, dateInput := range cases {
		_, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateInput})
		assert.ErrorIs(t, err, leave.ErrInvalidDate, "date %q", dateInput)
	}
}

func TestCreateRequest_LookaheadWindow(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	svc := newTestService(repo)

	// Exactly 60 days out is allowed.
	_, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(60)})
	require.NoError(t, err)

	// 61 days out is rejected, and nothing is stored.
	_, _, err = svc.CreateRequest(ctx, "bob", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(61)})
	assert.ErrorIs(t, err, leave.ErrTooFarInAdvance)

	count, err := svc.CountForUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCreateRequest_FarFutureRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeLeaveRequestRepository())

	_, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: "2099-01-01"})
	assert.ErrorIs(t, err, leave.ErrTooFarInAdvance)
}

// Past and same-day dates pass the window check: only the forward horizon is
// bounded. This pins the original behavior on purpose.
func TestCreateRequest_PastAndSameDayAllowed(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeLeaveRequestRepository())

	_, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(-1)})
	require.NoError(t, err)

	_, _, err = svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(0)})
	require.NoError(t, err)
}

func TestCreateRequest_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	svc := newTestService(repo)

	first, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{
		LeaveDate: dateStr(10),
		Reason:    "Vacation",
	})
	require.NoError(t, err)

	_, _, err = svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{
		LeaveDate: dateStr(10),
		Reason:    "Second attempt",
	})
	var dupErr *leave.DuplicateRequestError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, first.ID, dupErr.Existing.ID)
	assert.Equal(t, "Vacation", dupErr.Existing.Reason)

	// Stored state unchanged.
	count, err := svc.CountForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// A unique violation from the insert is reported as a duplicate carrying the
// record that won the race.
func TestCreateRequest_ConcurrentDuplicateMapped(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	svc := newTestService(repo)

	winner := leave.LeaveRequest{
		ID:        "req-winner",
		Username:  "alice",
		LeaveDate: testToday.AddDate(0, 0, 10),
		Reason:    "Got there first",
	}
	repo.createErr = &pgconn.PgError{Code: "23505"}
	repo.raceWinner = &winner

	_, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(10)})

	var dupErr *leave.DuplicateRequestError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "req-winner", dupErr.Existing.ID)
}

func TestCreateRequest_SameDateDifferentUsers(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeLeaveRequestRepository())

	_, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(10)})
	require.NoError(t, err)

	_, _, err = svc.CreateRequest(ctx, "bob", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(10)})
	require.NoError(t, err)
}

func TestCreateRequest_QuotaExceeded(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	svc := newTestService(repo)

	for i := 1; i <= leave.MaxStandingRequests; i++ {
		_, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(i)})
		require.NoError(t, err)
	}

	_, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(30)})
	assert.ErrorIs(t, err, leave.ErrQuotaExceeded)

	count, err := svc.CountForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, leave.MaxStandingRequests, count)

	// The quota is per user.
	_, _, err = svc.CreateRequest(ctx, "bob", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(30)})
	assert.NoError(t, err)
}

func TestDeleteRequest_Success(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	svc := newTestService(repo)

	created, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(10)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRequest(ctx, "alice", created.ID))

	count, err := svc.CountForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDeleteRequest_SameDayAllowed(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	svc := newTestService(repo)

	created, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(0)})
	require.NoError(t, err)

	assert.NoError(t, svc.DeleteRequest(ctx, "alice", created.ID))
}

func TestDeleteRequest_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeLeaveRequestRepository())

	err := svc.DeleteRequest(ctx, "alice", uuid.NewString())
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

// A non-UUID identifier can never match a record; it is reported as not found
// without reaching storage, where the uuid-typed column would reject it with a
// cast error.
func TestDeleteRequest_MalformedIDNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	repo.getByIDErr = &pgconn.PgError{Code: "22P02"}
	svc := newTestService(repo)

	for _, id := range []string{"abc", "42", "", "req-1"} {
		err := svc.DeleteRequest(ctx, "alice", id)
		assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound, "id %q", id)
	}
}

func TestDeleteRequest_NotOwner(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	svc := newTestService(repo)

	created, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(10)})
	require.NoError(t, err)

	err = svc.DeleteRequest(ctx, "bob", created.ID)
	assert.ErrorIs(t, err, leave.ErrNotRequestOwner)

	// Record is left intact.
	_, err = repo.GetByID(ctx, created.ID)
	assert.NoError(t, err)
}

func TestDeleteRequest_PastImmutable(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	svc := newTestService(repo)

	created, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(-3)})
	require.NoError(t, err)

	err = svc.DeleteRequest(ctx, "alice", created.ID)
	assert.ErrorIs(t, err, leave.ErrPastRequestImmutable)

	count, err := svc.CountForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestListRequests_AllUsers(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakeLeaveRequestRepository())

	_, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(1)})
	require.NoError(t, err)
	_, _, err = svc.CreateRequest(ctx, "bob", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(2)})
	require.NoError(t, err)

	all, err := svc.ListRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// Full walkthrough: far future rejected, today+60 accepted, duplicate
// rejected with the first record attached, then deleted while still future.
func TestAdmissionScenario(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLeaveRequestRepository()
	svc := newTestService(repo)

	_, _, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: "2099-01-01"})
	require.ErrorIs(t, err, leave.ErrTooFarInAdvance)

	created, count, err := svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{
		LeaveDate: dateStr(60),
		Reason:    "Vacation",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, _, err = svc.CreateRequest(ctx, "alice", leave.CreateLeaveRequestRequest{LeaveDate: dateStr(60)})
	var dupErr *leave.DuplicateRequestError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, created.ID, dupErr.Existing.ID)

	require.NoError(t, svc.DeleteRequest(ctx, "alice", created.ID))

	finalCount, err := svc.CountForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, finalCount)
}
