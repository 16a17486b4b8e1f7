package workflow

import (
	"strings"

	"github.com/aakashdp/labadmin_backend/internal/models"
)

// MinActionLength is the shortest accepted work-log action description.
const MinActionLength = 5

// IsTerminalTicketStatus reports whether no further transition is defined
// from s.
func IsTerminalTicketStatus(s models.TicketStatus) bool {
	return s == models.TicketCompleted || s == models.TicketRejected
}

// techTransitions are the transitions an assigned technician may fire.
// Assignment (Pending -> Assigned) is admin-only and handled separately.
var techTransitions = map[models.TicketStatus][]models.TicketStatus{
	models.TicketAssigned:   {models.TicketInProgress, models.TicketCompleted},
	models.TicketInProgress: {models.TicketCompleted},
}

// CheckAssign validates the Pending -> Assigned transition fired by an admin.
// The target user must currently hold the LabTech role and the ticket must
// not already be terminal.
func CheckAssign(ticket models.Ticket, technician *models.User) error {
	if IsTerminalTicketStatus(ticket.Status) {
		return ErrTerminalTicket
	}
	if technician == nil || technician.Role != models.RoleLabTech {
		return ErrInvalidTechnician
	}
	return nil
}

// TechUpdate carries a technician's status change and work-log entry.
type TechUpdate struct {
	NewStatus   models.TicketStatus
	ActionTaken string
	Remarks     string
}

// CheckTechUpdate validates a technician update against the state machine
// and the ownership filter. The caller must be the assigned technician, the
// transition must be one the technician workflow defines, and the work-log
// action text must meet the minimum length.
func CheckTechUpdate(ticket models.Ticket, callerID uint, upd TechUpdate) error {
	if ticket.AssignedTo == nil || *ticket.AssignedTo != callerID {
		return ErrNotAssignee
	}
	if len(strings.TrimSpace(upd.ActionTaken)) < MinActionLength {
		return ErrActionTooShort
	}
	if IsTerminalTicketStatus(ticket.Status) {
		return ErrTerminalTicket
	}
	for _, next := range techTransitions[ticket.Status] {
		if next == upd.NewStatus {
			return nil
		}
	}
	return ErrInvalidTransition
}

// CheckRequestStatus validates an admin setting a software request's status.
// Any of the three known statuses may be set, including idempotently back to
// Pending.
func CheckRequestStatus(status models.RequestStatus) error {
	if !models.IsValidRequestStatus(status) {
		return ErrInvalidStatus
	}
	return nil
}
