package models

import (
	"time"
)

type TicketStatus string

const (
	TicketPending    TicketStatus = "Pending"
	TicketAssigned   TicketStatus = "Assigned"
	TicketInProgress TicketStatus = "InProgress"
	TicketCompleted  TicketStatus = "Completed"
	TicketRejected   TicketStatus = "Rejected"
)

type Ticket struct {
	ID               uint `gorm:"primaryKey"`
	DeviceID         uint
	RequestedBy      uint
	AssignedTo       *uint
	IssueDescription string
	Status           TicketStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Device     *Device `gorm:"foreignKey:DeviceID"`
	Requester  *User   `gorm:"foreignKey:RequestedBy;constraint:OnDelete:RESTRICT"`
	Technician *User   `gorm:"foreignKey:AssignedTo;constraint:OnDelete:SET NULL"`
}
