package models

import (
	"time"
)

type DeviceStatus string

const (
	DeviceOperational      DeviceStatus = "Operational"
	DeviceUnderMaintenance DeviceStatus = "UnderMaintenance"
	DeviceOffline          DeviceStatus = "Offline"
)

func IsValidDeviceStatus(s DeviceStatus) bool {
	switch s {
	case DeviceOperational, DeviceUnderMaintenance, DeviceOffline:
		return true
	}
	return false
}

type Device struct {
	ID           uint `gorm:"primaryKey"`
	DeviceName   string
	DeviceType   string
	Brand        string
	Model        string
	SerialNumber string `gorm:"uniqueIndex"`
	Status       DeviceStatus
	LabID        uint
	Lab          *Lab `gorm:"foreignKey:LabID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
