package routes

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aakashdp/labadmin_backend/internal/config"
	"github.com/aakashdp/labadmin_backend/internal/controllers"
	"github.com/aakashdp/labadmin_backend/internal/middleware"
	"github.com/aakashdp/labadmin_backend/internal/workflow"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	expiresHours, err := strconv.Atoi(cfg.JWTExpiresIn)
	if err != nil || expiresHours <= 0 {
		expiresHours = 24
	}
	expiresIn := time.Duration(expiresHours) * time.Hour

	authCtrl := &controllers.AuthController{
		DB:        db,
		JWTSecret: cfg.JWTSecret,
		JWTIssuer: cfg.JWTIssuer,
		ExpiresIn: expiresIn,
	}
	ticketCtrl := &controllers.TicketController{DB: db}
	requestCtrl := &controllers.SoftwareRequestController{DB: db}
	labCtrl := &controllers.LabController{DB: db}
	deviceCtrl := &controllers.DeviceController{DB: db}
	userCtrl := &controllers.UserController{DB: db, PrimaryAdminEmail: cfg.AdminEmail}
	dashCtrl := controllers.NewDashboardController(db)
	reportCtrl := controllers.NewReportController(db)

	// Public
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtrl.Register)
		auth.POST("/login", authCtrl.Login)
	}

	// Protected
	authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		JWTIssuer:    cfg.JWTIssuer,
		JWTExpiresIn: expiresIn,
	})
	api := r.Group("/api", authMW)
	{
		tickets := api.Group("/tickets")
		{
			tickets.GET("", middleware.Authorize(workflow.OpListTickets), ticketCtrl.List)
			tickets.GET("/recent", middleware.Authorize(workflow.OpListTickets), ticketCtrl.Recent)
			tickets.GET("/my-requests", middleware.Authorize(workflow.OpListMyTickets), ticketCtrl.MyRequests)
			tickets.GET("/my-assigned", middleware.Authorize(workflow.OpListAssignedTickets), ticketCtrl.MyAssigned)
			tickets.POST("", middleware.Authorize(workflow.OpCreateTicket), ticketCtrl.Create)
			tickets.PUT("/:id/assign", middleware.Authorize(workflow.OpAssignTicket), ticketCtrl.Assign)
			tickets.PUT("/:id/tech-update", middleware.Authorize(workflow.OpTechUpdateTicket), ticketCtrl.TechUpdate)
		}

		requests := api.Group("/softwarerequests")
		{
			requests.GET("", middleware.Authorize(workflow.OpListSoftwareRequests), requestCtrl.List)
			requests.GET("/my-requests", middleware.Authorize(workflow.OpListMySoftwareRequests), requestCtrl.MyRequests)
			requests.POST("", middleware.Authorize(workflow.OpCreateSoftwareRequest), requestCtrl.Create)
			requests.PUT("/:id/status", middleware.Authorize(workflow.OpSetSoftwareRequestStatus), requestCtrl.UpdateStatus)
		}

		// Read-only listings available to every authenticated role.
		api.GET("/labs/list", labCtrl.List)
		api.GET("/devices/list", deviceCtrl.List)

		labs := api.Group("/labs", middleware.Authorize(workflow.OpManageLabs))
		{
			labs.GET("", labCtrl.List)
			labs.GET("/:id", labCtrl.Get)
			labs.POST("", labCtrl.Create)
			labs.PUT("/:id", labCtrl.Update)
			labs.DELETE("/:id", labCtrl.Delete)
		}

		devices := api.Group("/devices", middleware.Authorize(workflow.OpManageDevices))
		{
			devices.GET("", deviceCtrl.List)
			devices.GET("/:id", deviceCtrl.Get)
			devices.POST("", deviceCtrl.Create)
			devices.PUT("/:id", deviceCtrl.Update)
			devices.DELETE("/:id", deviceCtrl.Delete)
		}

		// Profile endpoints need only a valid token.
		api.GET("/users/me", userCtrl.Me)
		api.PUT("/users/me/password", userCtrl.ChangePassword)

		users := api.Group("/users", middleware.Authorize(workflow.OpManageUsers))
		{
			users.GET("", userCtrl.List)
			users.GET("/technicians", userCtrl.Technicians)
			users.GET("/:id", userCtrl.Get)
			users.POST("", userCtrl.Create)
			users.POST("/import", userCtrl.ImportUsers)
			users.PUT("/:id", userCtrl.Update)
			users.DELETE("/:id", userCtrl.Delete)
		}

		dashboard := api.Group("/dashboard", middleware.Authorize(workflow.OpViewReports))
		{
			dashboard.GET("/admin-stats", dashCtrl.AdminStats)
			dashboard.GET("/open-closed-stats", dashCtrl.OpenClosedStats)
			dashboard.GET("/monthly-bugs", dashCtrl.MonthlyBugs)
			dashboard.GET("/lab-stats", dashCtrl.LabStats)
			dashboard.GET("/tech-performance", dashCtrl.TechPerformance)
		}

		rep := api.Group("/reports", middleware.Authorize(workflow.OpViewReports))
		{
			rep.GET("/usage", reportCtrl.Usage)
			rep.GET("/audittrail", reportCtrl.AuditTrail)
		}
	}
}
