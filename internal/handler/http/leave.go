package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/leavedesk/leavedesk-backend-go/internal/domain/leave"
	"github.com/leavedesk/leavedesk-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	ListRequests(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// ListRequests implements LeaveHandler. Lists all leave requests across all
// users, matching the shared index view.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := l.leaveService.ListRequests(r.Context())
	if err != nil {
		slog.Error("ListRequests service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToResponseList(requests))
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	username, ok := usernameFromClaims(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, count, err := l.leaveService.CreateRequest(r.Context(), username, req)
	if err != nil {
		slog.Error("CreateRequest service error", "error", err, "username", username)
		response.HandleError(w, err)
		return
	}

	slog.Info("Leave request submitted", "username", username, "leave_date", req.LeaveDate)
	response.Created(w, "Your leave request has been submitted.", leave.CreateLeaveRequestResponse{
		Request: leave.ToResponse(created),
		Count:   count,
	})
}

// DeleteRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	username, ok := usernameFromClaims(w, r)
	if !ok {
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	if err := l.leaveService.DeleteRequest(r.Context(), username, requestID); err != nil {
		slog.Error("DeleteRequest service error", "error", err, "username", username, "request_id", requestID)
		response.HandleError(w, err)
		return
	}

	slog.Info("Leave request deleted", "username", username, "request_id", requestID)
	response.SuccessWithMessage(w, "Your leave request has been deleted.", nil)
}

// usernameFromClaims extracts the acting username from the verified JWT.
func usernameFromClaims(w http.ResponseWriter, r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		slog.Error("Failed to get JWT claims", "error", err)
		response.Unauthorized(w, "Unauthorized")
		return "", false
	}

	username, ok := claims["username"].(string)
	if !ok || username == "" {
		response.Unauthorized(w, "Unauthorized")
		return "", false
	}

	return username, true
}
