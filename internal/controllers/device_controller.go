package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aakashdp/labadmin_backend/internal/models"
)

type DeviceController struct {
	DB *gorm.DB
}

type deviceCreateUpdateRequest struct {
	DeviceName   string              `json:"deviceName" binding:"required"`
	DeviceType   string              `json:"deviceType" binding:"required"`
	Brand        string              `json:"brand"`
	Model        string              `json:"model"`
	SerialNumber string              `json:"serialNumber" binding:"required"`
	Status       models.DeviceStatus `json:"status" binding:"required"`
	LabID        uint                `json:"labId" binding:"required"`
}

// List returns all devices, optionally filtered by lab.
func (dc *DeviceController) List(c *gin.Context) {
	q := dc.DB.Preload("Lab").Order("device_name ASC")
	if labID := c.Query("labId"); labID != "" {
		q = q.Where("lab_id = ?", labID)
	}

	var devices []models.Device
	if err := q.Find(&devices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(devices))
	for i := range devices {
		out = append(out, deviceJSON(&devices[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (dc *DeviceController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	var device models.Device
	if err := dc.DB.Preload("Lab").First(&device, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	c.JSON(http.StatusOK, deviceJSON(&device))
}

func (dc *DeviceController) Create(c *gin.Context) {
	var req deviceCreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.IsValidDeviceStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device status"})
		return
	}

	var serialCount int64
	if err := dc.DB.Model(&models.Device{}).Where("serial_number = ?", req.SerialNumber).Count(&serialCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if serialCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "device with this serial number already exists"})
		return
	}

	var labCount int64
	if err := dc.DB.Model(&models.Lab{}).Where("id = ?", req.LabID).Count(&labCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if labCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lab id"})
		return
	}

	device := models.Device{
		DeviceName:   req.DeviceName,
		DeviceType:   req.DeviceType,
		Brand:        req.Brand,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		Status:       req.Status,
		LabID:        req.LabID,
	}
	if err := dc.DB.Create(&device).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "device with this serial number already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, deviceJSON(&device))
}

func (dc *DeviceController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	var device models.Device
	if err := dc.DB.First(&device, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	var req deviceCreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.IsValidDeviceStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device status"})
		return
	}

	if device.SerialNumber != req.SerialNumber {
		var serialCount int64
		if err := dc.DB.Model(&models.Device{}).Where("serial_number = ?", req.SerialNumber).Count(&serialCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if serialCount > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "device with this serial number already exists"})
			return
		}
	}

	var labCount int64
	if err := dc.DB.Model(&models.Lab{}).Where("id = ?", req.LabID).Count(&labCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if labCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lab id"})
		return
	}

	device.DeviceName = req.DeviceName
	device.DeviceType = req.DeviceType
	device.Brand = req.Brand
	device.Model = req.Model
	device.SerialNumber = req.SerialNumber
	device.Status = req.Status
	device.LabID = req.LabID
	if err := dc.DB.Save(&device).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "device with this serial number already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// Delete removes a device unless tickets or software requests still
// reference it.
func (dc *DeviceController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	var device models.Device
	if err := dc.DB.First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var ticketCount int64
	if err := dc.DB.Model(&models.Ticket{}).Where("device_id = ?", device.ID).Count(&ticketCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var requestCount int64
	if err := dc.DB.Model(&models.SoftwareRequest{}).Where("device_id = ?", device.ID).Count(&requestCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if ticketCount > 0 || requestCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete device, it has associated tickets or software requests"})
		return
	}

	if err := dc.DB.Delete(&device).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
