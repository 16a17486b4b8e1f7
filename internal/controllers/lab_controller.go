package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aakashdp/labadmin_backend/internal/models"
)

type LabController struct {
	DB *gorm.DB
}

type labCreateUpdateRequest struct {
	LabName       string `json:"labName" binding:"required"`
	Location      string `json:"location" binding:"required"`
	LabInchargeID *uint  `json:"labInchargeId"`
}

// List returns all labs with their incharge names.
func (lc *LabController) List(c *gin.Context) {
	var labs []models.Lab
	if err := lc.DB.Preload("LabIncharge").Order("lab_name ASC").Find(&labs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(labs))
	for i := range labs {
		out = append(out, labJSON(&labs[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (lc *LabController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lab id"})
		return
	}

	var lab models.Lab
	if err := lc.DB.Preload("LabIncharge").First(&lab, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lab not found"})
		return
	}
	c.JSON(http.StatusOK, labJSON(&lab))
}

func (lc *LabController) Create(c *gin.Context) {
	var req labCreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.LabInchargeID != nil {
		var count int64
		if err := lc.DB.Model(&models.User{}).Where("id = ?", *req.LabInchargeID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lab incharge id"})
			return
		}
	}

	lab := models.Lab{
		LabName:       req.LabName,
		Location:      req.Location,
		LabInchargeID: req.LabInchargeID,
	}
	if err := lc.DB.Create(&lab).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, labJSON(&lab))
}

func (lc *LabController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lab id"})
		return
	}

	var lab models.Lab
	if err := lc.DB.First(&lab, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lab not found"})
		return
	}

	var req labCreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.LabInchargeID != nil {
		var count int64
		if err := lc.DB.Model(&models.User{}).Where("id = ?", *req.LabInchargeID).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lab incharge id"})
			return
		}
	}

	lab.LabName = req.LabName
	lab.Location = req.Location
	lab.LabInchargeID = req.LabInchargeID
	if err := lc.DB.Save(&lab).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

// Delete removes a lab unless devices still reference it.
func (lc *LabController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lab id"})
		return
	}

	var lab models.Lab
	if err := lc.DB.First(&lab, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "lab not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var deviceCount int64
	if err := lc.DB.Model(&models.Device{}).Where("lab_id = ?", lab.ID).Count(&deviceCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if deviceCount > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "cannot delete lab, reassign its devices first"})
		return
	}

	if err := lc.DB.Delete(&lab).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
