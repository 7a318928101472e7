// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gharkhoj/gharkhoj-backend/internal/config"
	"github.com/gharkhoj/gharkhoj-backend/internal/handlers"
	"github.com/gharkhoj/gharkhoj-backend/internal/middleware"
	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/services"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	utils.SetAmenityVocabularyCheck(func(tag string) bool {
		_, ok := models.AmenityVocabulary[tag]
		return ok
	})

	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	propertyService := services.NewPropertyService(db, storageService)
	localityService := services.NewLocalityService(db)
	enquiryService := services.NewEnquiryService(db)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	propertyHandler := handlers.NewPropertyHandler(propertyService, localityService, cfg)
	homeHandler := handlers.NewHomeHandler(propertyService, localityService, cfg)
	localityHandler := handlers.NewLocalityHandler(localityService, cfg)
	enquiryHandler := handlers.NewEnquiryHandler(enquiryService)
	agentHandler := handlers.NewAgentHandler(propertyService, storageService, cfg)
	adminHandler := handlers.NewAdminHandler(adminService, propertyService, localityService, enquiryService, cfg)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Uploaded images are served straight off disk when S3 is not
	// configured.
	if cfg.Storage.AccessKeyID == "" {
		r.Static("/uploads", cfg.Storage.UploadDir)
	}

	// API v1 routes
	v1 := r.Group("/v1")
	{
		v1.GET("/home", homeHandler.Home)

		properties := v1.Group("/properties")
		{
			properties.GET("", propertyHandler.List)
			properties.GET("/slug/:slug", propertyHandler.GetBySlug)
			properties.GET("/:id", propertyHandler.Get)
		}

		v1.GET("/search/suggestions", propertyHandler.Suggestions)

		localities := v1.Group("/localities")
		{
			localities.GET("", localityHandler.List)
			localities.GET("/:id/properties", localityHandler.Properties)
		}

		v1.POST("/enquiry", middleware.EnquiryRateLimit(), enquiryHandler.Log)

		// Agent routes: authenticated, approval-gated
		agent := v1.Group("/agent")
		agent.Use(middleware.AuthRequired(), middleware.ApprovedAgentRequired())
		{
			agent.GET("/dashboard", agentHandler.Dashboard)
			agent.GET("/properties", agentHandler.MyProperties)
			agent.POST("/properties", agentHandler.Create)
			agent.PUT("/properties/:id", agentHandler.Update)
			agent.DELETE("/properties/:id", agentHandler.Delete)
			agent.PATCH("/properties/:id/status", agentHandler.ChangeStatus)
			agent.POST("/properties/:id/images", middleware.UploadRateLimit(), agentHandler.UploadImage)
			agent.DELETE("/properties/:id/images/:image_id", agentHandler.DeleteImage)
			agent.PATCH("/properties/:id/images/:image_id/primary", agentHandler.SetPrimaryImage)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/analytics", adminHandler.Analytics)

			admin.GET("/properties", adminHandler.ListProperties)
			admin.PATCH("/properties/:id/approve", adminHandler.ApproveProperty)
			admin.PATCH("/properties/:id/reject", adminHandler.RejectProperty)
			admin.PATCH("/properties/:id/feature", adminHandler.ToggleFeatured)
			admin.DELETE("/properties/:id", adminHandler.DeleteProperty)

			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/approve", adminHandler.ApproveUser)
			admin.PATCH("/users/:id/suspend", adminHandler.SuspendUser)

			admin.POST("/localities", adminHandler.CreateLocality)
			admin.DELETE("/localities/:id", adminHandler.DeleteLocality)
		}
	}

	return r
}
