package models

import (
	"time"
)

// WorkLog is append-only: rows are created by technician ticket updates and
// never modified or deleted afterwards.
type WorkLog struct {
	ID           uint `gorm:"primaryKey"`
	TicketID     uint
	TechnicianID uint
	ActionTaken  string
	Remarks      string
	Timestamp    time.Time `gorm:"index"`

	Ticket     *Ticket `gorm:"foreignKey:TicketID"`
	Technician *User   `gorm:"foreignKey:TechnicianID"`
}
