package response

import (
	"errors"
	"net/http"

	"github.com/leavedesk/leavedesk-backend-go/internal/domain/auth"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/user"
	"github.com/leavedesk/leavedesk-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Duplicate rejections carry the conflicting record
	var dupErr *leave.DuplicateRequestError
	if errors.As(err, &dupErr) {
		ConflictWithDetails(w, "A leave request for this date already exists", map[string]string{
			"existing_request_id": dupErr.Existing.ID,
			"leave_date":          dupErr.Existing.LeaveDate.Format("2006-01-02"),
			"reason":              dupErr.Existing.Reason,
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrRefreshTokenCookieNotFound),
		errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		Unauthorized(w, "Refresh token cookie missing")

	// User domain errors
	case errors.Is(err, user.ErrUsernameTaken):
		Conflict(w, "Username already exists. Choose a different one.")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrInvalidDate):
		BadRequest(w, "Invalid date format. Please use YYYY-MM-DD format.", nil)
	case errors.Is(err, leave.ErrTooFarInAdvance):
		BadRequest(w, "You cannot request leave more than 60 days in advance.", nil)
	case errors.Is(err, leave.ErrQuotaExceeded):
		BadRequest(w, "You have already submitted 10 leave requests. You cannot submit more.", nil)
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "You are not authorized to delete this leave request.")
	case errors.Is(err, leave.ErrPastRequestImmutable):
		Forbidden(w, "You cannot delete a leave request that is in the past.")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
