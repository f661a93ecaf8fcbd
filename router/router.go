package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/assetflow/asset-movement/controllers"
	"github.com/assetflow/asset-movement/middlewares"
	"github.com/assetflow/asset-movement/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middlewares.LoggerMiddleware())

	// Uploaded justification documents and condition photos
	r.Static("/uploads", "public/uploads")

	userCtrl := controllers.NewUserController(db)
	assetCtrl := controllers.NewAssetController(db)
	requestCtrl := controllers.NewRequestController(db)
	approvalCtrl := controllers.NewApprovalController(db)
	securityCtrl := controllers.NewSecurityController(db)
	notificationCtrl := controllers.NewNotificationController(db)
	commentCtrl := controllers.NewCommentController(db)
	attachmentCtrl := controllers.NewAttachmentController(db)
	orgCtrl := controllers.NewOrgController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Websocket feed; the token is passed as a query parameter on upgrade
	r.GET("/ws", middlewares.AuthMiddleware(), controllers.RealtimeHandler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/api")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)

	// Reference data for the request form
	auth.GET("/assets", assetCtrl.GetAllAssets)
	auth.GET("/assets/:asset_id", assetCtrl.GetAssetByID)
	auth.GET("/departments", orgCtrl.GetAllDepartments)
	auth.GET("/branches", orgCtrl.GetAllBranches)

	// Requests
	auth.POST("/requests", requestCtrl.CreateRequest)
	auth.GET("/requests/mine", requestCtrl.GetMyRequests)
	auth.GET("/requests/:request_id", requestCtrl.GetRequestByID)
	auth.PATCH("/requests/:request_id/cancel", requestCtrl.CancelRequest)
	auth.POST("/requests/:request_id/duplicate", requestCtrl.DuplicateRequest)

	// Comments and attachments on a request
	auth.GET("/requests/:request_id/comments", commentCtrl.GetCommentsByRequest)
	auth.POST("/requests/:request_id/comments", commentCtrl.CreateComment)
	auth.GET("/requests/:request_id/attachments", attachmentCtrl.GetAttachmentsByRequest)
	auth.POST("/requests/:request_id/attachments", attachmentCtrl.Upload)

	// Approval and verification read views on a request
	auth.GET("/requests/:request_id/approvals", approvalCtrl.GetApprovalsByRequest)
	auth.GET("/requests/:request_id/verifications", securityCtrl.GetVerificationsByRequest)

	// Notifications
	auth.GET("/notifications", notificationCtrl.GetMyNotifications)
	auth.GET("/notifications/unread-count", notificationCtrl.GetUnreadCount)
	auth.PATCH("/notifications/:notif_id/read", notificationCtrl.MarkAsRead)
	auth.PATCH("/notifications/read-all", notificationCtrl.MarkAllRead)

	// Reviewer routes
	reviewer := auth.Group("/")
	reviewer.Use(middlewares.RequireRoles(models.RoleDepartmentHead, models.RoleICT))
	{
		reviewer.GET("/approvals/pending", approvalCtrl.GetPendingApprovals)
		reviewer.PATCH("/approvals/:approval_id", approvalCtrl.ResolveApproval)
	}

	// Security checkpoint routes
	security := auth.Group("/security")
	security.Use(middlewares.RequireRoles(models.RoleSecurity))
	{
		security.POST("/verifications", securityCtrl.CreateVerification)
		security.PATCH("/verifications/:verification_id/verify", securityCtrl.Verify)
	}

	// Oversight and setup
	admin := auth.Group("/admin")
	admin.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", userCtrl.GetAllUsers)
		admin.GET("/requests", requestCtrl.GetAllRequests)
		admin.POST("/assets", assetCtrl.CreateAsset)
		admin.PATCH("/assets/:asset_id", assetCtrl.UpdateAssetStatus)
		admin.POST("/departments", orgCtrl.CreateDepartment)
		admin.POST("/branches", orgCtrl.CreateBranch)
		admin.POST("/notifications", notificationCtrl.CreateNotification)
	}

	return r
}
