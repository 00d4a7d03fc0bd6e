package leave

import "time"

type CreateLeaveRequestRequest struct {
	LeaveDate string `json:"leave_date"`
	Reason    string `json:"reason"`
}

// Validate implements the DTO contract. The date format is an admission rule
// handled by the service, and the reason is free text that may be empty.
func (r *CreateLeaveRequestRequest) Validate() error {
	return nil
}

type LeaveRequestResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	LeaveDate string    `json:"leave_date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func ToResponse(lr LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:        lr.ID,
		Username:  lr.Username,
		LeaveDate: lr.LeaveDate.Format("2006-01-02"),
		Reason:    lr.Reason,
		CreatedAt: lr.CreatedAt,
	}
}

func ToResponseList(requests []LeaveRequest) []LeaveRequestResponse {
	responses := make([]LeaveRequestResponse, 0, len(requests))
	for _, lr := range requests {
		responses = append(responses, ToResponse(lr))
	}
	return responses
}

type CreateLeaveRequestResponse struct {
	Request LeaveRequestResponse `json:"request"`
	Count   int                  `json:"count"`
}
