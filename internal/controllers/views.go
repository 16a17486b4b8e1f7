package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aakashdp/labadmin_backend/internal/models"
)

// isUniqueViolation reports a postgres duplicate-key error (SQLSTATE 23505).
// Uniqueness is pre-checked before inserts, but two concurrent requests can
// both pass the pre-check; the database constraint is the real arbiter.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// lockForUpdate adds a row-level write lock on dialects that support it.
// The sqlite dialect used in tests serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// userJSON is the only shape in which a user ever leaves the API. The
// password hash has no field here.
func userJSON(u *models.User) gin.H {
	if u == nil {
		return nil
	}
	return gin.H{
		"userId": u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"role":   u.Role,
	}
}

func labJSON(l *models.Lab) gin.H {
	if l == nil {
		return nil
	}
	out := gin.H{
		"labId":         l.ID,
		"labName":       l.LabName,
		"location":      l.Location,
		"labInchargeId": l.LabInchargeID,
	}
	if l.LabIncharge != nil {
		out["labInchargeName"] = l.LabIncharge.Name
	}
	return out
}

func deviceJSON(d *models.Device) gin.H {
	if d == nil {
		return nil
	}
	out := gin.H{
		"deviceId":     d.ID,
		"deviceName":   d.DeviceName,
		"deviceType":   d.DeviceType,
		"brand":        d.Brand,
		"model":        d.Model,
		"serialNumber": d.SerialNumber,
		"status":       d.Status,
		"labId":        d.LabID,
	}
	if d.Lab != nil {
		out["labName"] = d.Lab.LabName
	}
	return out
}

func ticketJSON(t *models.Ticket) gin.H {
	return gin.H{
		"ticketId":         t.ID,
		"issueDescription": t.IssueDescription,
		"status":           t.Status,
		"deviceId":         t.DeviceID,
		"requestedBy":      t.RequestedBy,
		"assignedTo":       t.AssignedTo,
		"createdAt":        t.CreatedAt,
		"updatedAt":        t.UpdatedAt,
		"device":           deviceJSON(t.Device),
		"requester":        userJSON(t.Requester),
		"technician":       userJSON(t.Technician),
	}
}

func softwareRequestJSON(sr *models.SoftwareRequest) gin.H {
	out := gin.H{
		"softwareRequestId": sr.ID,
		"softwareName":      sr.SoftwareName,
		"version":           sr.Version,
		"status":            sr.Status,
		"deviceId":          sr.DeviceID,
		"requestedBy":       sr.RequestedBy,
		"createdAt":         sr.CreatedAt,
		"updatedAt":         sr.UpdatedAt,
		"device":            deviceJSON(sr.Device),
	}
	if sr.Requester != nil {
		out["requesterName"] = sr.Requester.Name
	}
	return out
}
