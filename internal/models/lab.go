package models

import (
	"time"
)

type Lab struct {
	ID            uint `gorm:"primaryKey"`
	LabName       string
	Location      string
	LabInchargeID *uint
	LabIncharge   *User `gorm:"foreignKey:LabInchargeID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
