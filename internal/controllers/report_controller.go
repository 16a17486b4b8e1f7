package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aakashdp/labadmin_backend/internal/reports"
)

type ReportController struct {
	Projector *reports.Projector
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{Projector: &reports.Projector{DB: db}}
}

func (rc *ReportController) Usage(c *gin.Context) {
	report, err := rc.Projector.UsageReport()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (rc *ReportController) AuditTrail(c *gin.Context) {
	logs, err := rc.Projector.AuditTrail()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}
