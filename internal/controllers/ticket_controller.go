package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aakashdp/labadmin_backend/internal/middleware"
	"github.com/aakashdp/labadmin_backend/internal/models"
	"github.com/aakashdp/labadmin_backend/internal/workflow"
)

type TicketController struct {
	DB *gorm.DB
}

type createTicketRequest struct {
	DeviceID         uint   `json:"deviceId" binding:"required"`
	IssueDescription string `json:"issueDescription" binding:"required"`
}

type assignTicketRequest struct {
	TechnicianID uint `json:"technicianId" binding:"required"`
}

type techUpdateRequest struct {
	NewStatus   models.TicketStatus `json:"newStatus" binding:"required"`
	ActionTaken string              `json:"actionTaken" binding:"required"`
	Remarks     string              `json:"remarks"`
}

func ticketPreloads(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Requester").
		Preload("Technician").
		Preload("Device").
		Preload("Device.Lab")
}

// List returns every ticket, optionally filtered by status.
func (tc *TicketController) List(c *gin.Context) {
	q := ticketPreloads(tc.DB.Model(&models.Ticket{}))
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var tickets []models.Ticket
	if err := q.Order("created_at DESC").Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketJSON(&tickets[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Recent returns the ten newest tickets for the admin dashboard widget.
func (tc *TicketController) Recent(c *gin.Context) {
	var tickets []models.Ticket
	if err := ticketPreloads(tc.DB.Model(&models.Ticket{})).
		Order("created_at DESC").
		Limit(10).
		Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketJSON(&tickets[i]))
	}
	c.JSON(http.StatusOK, out)
}

// MyRequests returns tickets the caller submitted.
func (tc *TicketController) MyRequests(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var tickets []models.Ticket
	if err := ticketPreloads(tc.DB.Model(&models.Ticket{})).
		Where("requested_by = ?", user.ID).
		Order("created_at DESC").
		Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketJSON(&tickets[i]))
	}
	c.JSON(http.StatusOK, out)
}

// MyAssigned returns the caller's open to-do list: tickets assigned to them
// that are not yet finished.
func (tc *TicketController) MyAssigned(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var tickets []models.Ticket
	if err := ticketPreloads(tc.DB.Model(&models.Ticket{})).
		Where("assigned_to = ? AND status IN ?", user.ID,
			[]models.TicketStatus{models.TicketAssigned, models.TicketInProgress}).
		Order("status ASC, created_at DESC").
		Find(&tickets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketJSON(&tickets[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Create opens a new Pending ticket owned by the caller.
func (tc *TicketController) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var deviceCount int64
	if err := tc.DB.Model(&models.Device{}).Where("id = ?", req.DeviceID).Count(&deviceCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if deviceCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	ticket := models.Ticket{
		DeviceID:         req.DeviceID,
		RequestedBy:      user.ID,
		IssueDescription: req.IssueDescription,
		Status:           models.TicketPending,
	}
	if err := tc.DB.Create(&ticket).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ticketJSON(&ticket))
}

// Assign fires the Pending -> Assigned transition. The target must currently
// hold the LabTech role. The ticket row is locked for the duration so two
// concurrent assignments serialize instead of racing on assignedTo.
func (tc *TicketController) Assign(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	var req assignTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ticket models.Ticket
	txErr := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&ticket, id).Error; err != nil {
			return err
		}

		var technician models.User
		if err := tx.Where("id = ?", req.TechnicianID).First(&technician).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return workflow.ErrInvalidTechnician
			}
			return err
		}

		if err := workflow.CheckAssign(ticket, &technician); err != nil {
			return err
		}

		ticket.AssignedTo = &technician.ID
		ticket.Status = models.TicketAssigned
		return tx.Save(&ticket).Error
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		case errors.Is(txErr, workflow.ErrInvalidTechnician):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid technician id"})
		case errors.Is(txErr, workflow.ErrTerminalTicket):
			c.JSON(http.StatusConflict, gin.H{"error": "ticket is already closed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": txErr.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, ticketJSON(&ticket))
}

// TechUpdate fires an assigned technician's status transition and appends
// the matching work log. Both writes happen in one transaction: either the
// ticket moves and the log exists, or neither.
func (tc *TicketController) TechUpdate(c *gin.Context) {
	user := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	var req techUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txErr := tc.DB.Transaction(func(tx *gorm.DB) error {
		var ticket models.Ticket
		if err := lockForUpdate(tx).First(&ticket, id).Error; err != nil {
			return err
		}

		upd := workflow.TechUpdate{
			NewStatus:   req.NewStatus,
			ActionTaken: req.ActionTaken,
			Remarks:     req.Remarks,
		}
		if err := workflow.CheckTechUpdate(ticket, user.ID, upd); err != nil {
			return err
		}

		ticket.Status = req.NewStatus
		if err := tx.Save(&ticket).Error; err != nil {
			return err
		}

		entry := models.WorkLog{
			TicketID:     ticket.ID,
			TechnicianID: user.ID,
			ActionTaken:  req.ActionTaken,
			Remarks:      req.Remarks,
			Timestamp:    time.Now().UTC(),
		}
		return tx.Create(&entry).Error
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		case errors.Is(txErr, workflow.ErrNotAssignee):
			c.JSON(http.StatusForbidden, gin.H{"error": "this ticket is not assigned to you"})
		case errors.Is(txErr, workflow.ErrActionTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": txErr.Error()})
		case errors.Is(txErr, workflow.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status, must be 'InProgress' or 'Completed'"})
		case errors.Is(txErr, workflow.ErrTerminalTicket):
			c.JSON(http.StatusConflict, gin.H{"error": "ticket is already closed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": txErr.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ticket updated"})
}
