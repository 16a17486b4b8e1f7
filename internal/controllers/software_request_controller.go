package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aakashdp/labadmin_backend/internal/middleware"
	"github.com/aakashdp/labadmin_backend/internal/models"
	"github.com/aakashdp/labadmin_backend/internal/workflow"
)

type SoftwareRequestController struct {
	DB *gorm.DB
}

type createSoftwareRequestRequest struct {
	DeviceID     uint   `json:"deviceId" binding:"required"`
	SoftwareName string `json:"softwareName" binding:"required"`
	Version      string `json:"version"`
}

type updateRequestStatusRequest struct {
	Status models.RequestStatus `json:"status" binding:"required"`
}

func requestPreloads(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Requester").
		Preload("Device").
		Preload("Device.Lab")
}

// List returns every software request, optionally filtered by status.
func (sc *SoftwareRequestController) List(c *gin.Context) {
	q := requestPreloads(sc.DB.Model(&models.SoftwareRequest{}))
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []models.SoftwareRequest
	if err := q.Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(requests))
	for i := range requests {
		out = append(out, softwareRequestJSON(&requests[i]))
	}
	c.JSON(http.StatusOK, out)
}

// MyRequests returns software requests the caller submitted.
func (sc *SoftwareRequestController) MyRequests(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var requests []models.SoftwareRequest
	if err := requestPreloads(sc.DB.Model(&models.SoftwareRequest{})).
		Where("requested_by = ?", user.ID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(requests))
	for i := range requests {
		out = append(out, softwareRequestJSON(&requests[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Create opens a new Pending software request owned by the caller.
func (sc *SoftwareRequestController) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req createSoftwareRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var deviceCount int64
	if err := sc.DB.Model(&models.Device{}).Where("id = ?", req.DeviceID).Count(&deviceCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if deviceCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	request := models.SoftwareRequest{
		DeviceID:     req.DeviceID,
		RequestedBy:  user.ID,
		SoftwareName: req.SoftwareName,
		Version:      req.Version,
		Status:       models.RequestPending,
	}
	if err := sc.DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, softwareRequestJSON(&request))
}

// UpdateStatus approves or rejects a request (or sets it back to Pending).
func (sc *SoftwareRequestController) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req updateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := workflow.CheckRequestStatus(req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status, must be 'Approved', 'Rejected' or 'Pending'"})
		return
	}

	var request models.SoftwareRequest
	if err := sc.DB.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "software request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	request.Status = req.Status
	if err := sc.DB.Save(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}
