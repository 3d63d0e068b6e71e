package main

import (
	"github.com/gin-gonic/gin"

	"github.com/careops-au/ndis-ops-api/internal/handler"
	"github.com/careops-au/ndis-ops-api/internal/middleware"
	"github.com/careops-au/ndis-ops-api/internal/models"
	"github.com/careops-au/ndis-ops-api/internal/service"
)

type routeDeps struct {
	auth        *service.AuthService
	authH       *handler.AuthHandler
	staff       *handler.StaffHandler
	participant *handler.ParticipantHandler
	rates       *handler.AwardRateHandler
	payroll     *handler.PayrollHandler
	payruns     *handler.PayRunHandler
	shifts      *handler.ShiftHandler
	attendance  *handler.AttendanceHandler
	dashboard   *handler.DashboardHandler
}

func registerRoutes(api *gin.RouterGroup, deps routeDeps) {
	coordinators := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator)
	finance := middleware.RequireRoles(models.RoleAdmin, models.RoleFinance)
	workers := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator, models.RoleSupportWorker)

	auth := api.Group("/auth")
	{
		auth.POST("/login", deps.authH.Login)
		auth.POST("/refresh", deps.authH.Refresh)

		authed := auth.Group("", middleware.JWT(deps.auth))
		authed.POST("/logout", deps.authH.Logout)
		authed.POST("/change-password", deps.authH.ChangePassword)
		authed.GET("/me", deps.authH.Me)
	}

	// Signed-token download; auth lives in the token itself.
	api.GET("/payruns/download", deps.payruns.Download)

	protected := api.Group("", middleware.JWT(deps.auth))

	staff := protected.Group("/staff", coordinators)
	{
		staff.GET("", deps.staff.List)
		staff.GET("/:id", deps.staff.Get)
		staff.POST("", deps.staff.Create)
		staff.PUT("/:id", deps.staff.Update)
		staff.DELETE("/:id", deps.staff.Deactivate)
	}

	participants := protected.Group("/participants", coordinators)
	{
		participants.GET("", deps.participant.List)
		participants.GET("/:id", deps.participant.Get)
		participants.POST("", deps.participant.Create)
		participants.PUT("/:id", deps.participant.Update)
		participants.DELETE("/:id", deps.participant.Deactivate)
	}

	rates := protected.Group("/award-rates", finance)
	{
		rates.GET("", deps.rates.List)
		rates.POST("", deps.rates.Create)
		rates.DELETE("/:id", deps.rates.Deactivate)
	}

	payroll := protected.Group("/payroll", finance)
	{
		payroll.POST("/calculate/:staffId", deps.payroll.Calculate)
	}

	payruns := protected.Group("/payruns", finance)
	{
		payruns.POST("", deps.payruns.Process)
		payruns.GET("", deps.payruns.List)
		payruns.GET("/:id", deps.payruns.Get)
		payruns.GET("/:id/payslips", deps.payruns.Payslips)
		payruns.POST("/:id/export", deps.payruns.Export)
	}

	shifts := protected.Group("/shifts")
	{
		shifts.GET("", workers, deps.shifts.List)
		shifts.GET("/:id", workers, deps.shifts.Get)
		shifts.POST("", coordinators, deps.shifts.Create)
		shifts.PUT("/:id", coordinators, deps.shifts.Update)
		shifts.DELETE("/:id", coordinators, deps.shifts.Cancel)

		shifts.POST("/:id/allocate", coordinators, deps.shifts.Allocate)
		shifts.GET("/:id/scores", coordinators, deps.shifts.Scores)
		shifts.GET("/:id/offers", coordinators, deps.shifts.Offers)

		shifts.POST("/:id/clock-in", workers, deps.attendance.ClockIn)
		shifts.POST("/:id/clock-out", workers, deps.attendance.ClockOut)
	}

	offers := protected.Group("/offers", workers)
	{
		offers.GET("", deps.shifts.MyOffers)
		offers.POST("/:id/respond", deps.shifts.RespondToOffer)
	}

	unavailability := protected.Group("/unavailability")
	{
		unavailability.POST("", workers, deps.shifts.SubmitUnavailability)
		unavailability.GET("", workers, deps.shifts.ListUnavailability)
		unavailability.GET("/pending", coordinators, deps.shifts.PendingUnavailability)
		unavailability.POST("/:id/decide", coordinators, deps.shifts.DecideUnavailability)
	}

	attendance := protected.Group("/attendance", coordinators)
	{
		attendance.GET("/overrides", deps.attendance.Overrides)
		attendance.POST("/overrides/:id/approve", deps.attendance.ApproveOverride)
	}

	dashboard := protected.Group("/dashboard", coordinators)
	{
		dashboard.GET("", deps.dashboard.Summary)
		dashboard.GET("/metrics", deps.dashboard.SystemMetrics)
	}
}
