package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aakashdp/labadmin_backend/internal/reports"
)

type DashboardController struct {
	Projector *reports.Projector
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{Projector: &reports.Projector{DB: db}}
}

func (dc *DashboardController) AdminStats(c *gin.Context) {
	stats, err := dc.Projector.AdminStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (dc *DashboardController) OpenClosedStats(c *gin.Context) {
	stats, err := dc.Projector.OpenClosedStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (dc *DashboardController) MonthlyBugs(c *gin.Context) {
	data, err := dc.Projector.MonthlyCompleted(time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

func (dc *DashboardController) LabStats(c *gin.Context) {
	stats, err := dc.Projector.LabStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (dc *DashboardController) TechPerformance(c *gin.Context) {
	data, err := dc.Projector.TechPerformance(time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}
