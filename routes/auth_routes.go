package routes

import (
	"canal-denuncies/auth"
	"canal-denuncies/controllers"
	middlewares "canal-denuncies/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPublicRoutes(api *gin.RouterGroup) {
	api.GET("/session", controllers.GetSession)
	api.POST("/navigate", controllers.Navigate)
	api.POST("/login/close", controllers.CloseLogin)
	api.GET("/info", controllers.GetInfo)

	form := api.Group("/form")
	form.GET("", controllers.GetForm)
	form.PUT("", controllers.UpdateForm)
	form.POST("/next", controllers.NextStep)
	form.POST("/back", controllers.PrevStep)
	form.POST("/cancel", controllers.CancelForm)
	form.POST("/attachments", controllers.UploadAttachments)
	form.DELETE("/attachments/:index", controllers.DeleteAttachment)

	api.GET("/tracking/:code", controllers.TrackReport)
}

func SetupAuthRoutes(api *gin.RouterGroup, m *auth.Manager) {
	api.POST("/admin/login", controllers.AdminLogin)

	admin := api.Group("/admin", middlewares.AuthMiddleware(m), controllers.AdminSession)
	admin.POST("/logout", controllers.AdminLogout)
	admin.POST("/sync", controllers.SyncReports)
	admin.GET("/stats", controllers.GetStats)
	admin.GET("/reports", controllers.GetAllReports)
	admin.GET("/reports/:id", controllers.GetReportByID)
	admin.PUT("/reports/:id/status", controllers.UpdateStatus)
	admin.PUT("/reports/:id/observations", controllers.UpdateObservations)
	admin.POST("/reports/:id/delete-request", controllers.RequestDelete)
	admin.DELETE("/reports/:id", controllers.DeleteReport)
	admin.GET("/reports/:id/print", controllers.PrintReport)
	admin.PUT("/settings/pin", controllers.UpdatePIN)
}
