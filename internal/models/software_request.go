package models

import (
	"time"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
)

func IsValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

type SoftwareRequest struct {
	ID           uint `gorm:"primaryKey"`
	DeviceID     uint
	RequestedBy  uint
	SoftwareName string
	Version      string
	Status       RequestStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Device    *Device `gorm:"foreignKey:DeviceID"`
	Requester *User   `gorm:"foreignKey:RequestedBy"`
}
