// Package workflow holds the role-gated rules of the ticketing system: which
// role may perform which operation, and which lifecycle transitions are legal
// on tickets and software requests. Controllers and middleware consult this
// package instead of carrying their own role checks.
package workflow

import (
	"errors"

	"github.com/aakashdp/labadmin_backend/internal/models"
)

var (
	ErrNotPermitted      = errors.New("role is not permitted for this operation")
	ErrNotAssignee       = errors.New("ticket is not assigned to this technician")
	ErrInvalidTechnician = errors.New("assignee must be an active lab technician")
	ErrInvalidTransition = errors.New("ticket status transition is not allowed")
	ErrTerminalTicket    = errors.New("ticket is already in a terminal state")
	ErrActionTooShort    = errors.New("action taken must be at least 5 characters")
	ErrInvalidStatus     = errors.New("status value is not recognized")
)

// Operation identifies one gated operation class from the access table.
type Operation int

const (
	OpListTickets Operation = iota
	OpListMyTickets
	OpListAssignedTickets
	OpCreateTicket
	OpAssignTicket
	OpTechUpdateTicket
	OpListSoftwareRequests
	OpListMySoftwareRequests
	OpCreateSoftwareRequest
	OpSetSoftwareRequestStatus
	OpManageLabs
	OpManageDevices
	OpManageUsers
	OpViewReports
)

// accessTable is the authoritative operation -> allowed-roles mapping.
// Ownership filters (requester == caller, assignedTo == caller) are applied
// by the operations themselves on top of this gate.
var accessTable = map[Operation][]models.Role{
	OpListTickets:              {models.RoleAdmin, models.RoleLabTech},
	OpListMyTickets:            {models.RoleStudent, models.RoleTeacher, models.RoleAdmin},
	OpListAssignedTickets:      {models.RoleLabTech},
	OpCreateTicket:             {models.RoleStudent, models.RoleTeacher, models.RoleAdmin},
	OpAssignTicket:             {models.RoleAdmin},
	OpTechUpdateTicket:         {models.RoleLabTech},
	OpListSoftwareRequests:     {models.RoleAdmin},
	OpListMySoftwareRequests:   {models.RoleStudent, models.RoleTeacher, models.RoleAdmin},
	OpCreateSoftwareRequest:    {models.RoleStudent, models.RoleTeacher, models.RoleAdmin},
	OpSetSoftwareRequestStatus: {models.RoleAdmin},
	OpManageLabs:               {models.RoleAdmin},
	OpManageDevices:            {models.RoleAdmin},
	OpManageUsers:              {models.RoleAdmin},
	OpViewReports:              {models.RoleAdmin},
}

// Can reports whether role may perform op.
func Can(role models.Role, op Operation) bool {
	for _, r := range accessTable[op] {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns a copy of the allowed-role set for op.
func AllowedRoles(op Operation) []models.Role {
	roles := accessTable[op]
	out := make([]models.Role, len(roles))
	copy(out, roles)
	return out
}

// Operations lists every operation in the access table, for exhaustiveness
// checks in tests.
func Operations() []Operation {
	ops := make([]Operation, 0, len(accessTable))
	for op := range accessTable {
		ops = append(ops, op)
	}
	return ops
}
