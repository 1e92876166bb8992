package api

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"handymandy-backend-go/internal/core"
	"handymandy-backend-go/internal/middleware"
	"handymandy-backend-go/internal/nav"
	"handymandy-backend-go/internal/session"
)

// SetupRoutes wires the API under /api/v1 and the guarded page routes at the
// root. Global middleware (logging, recovery, CORS) is applied to the router
// before this is called.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authClient *auth.Client,
	requestService core.RequestService,
	serviceListingService core.ServiceListingService,
	userService core.UserService,
	sessionManager *session.Manager,
) {
	authMW := middleware.NewAuthMiddleware(authClient, logger)

	requestHandler := NewRequestHandler(requestService, logger)
	serviceHandler := NewServiceHandler(serviceListingService, logger)
	userHandler := NewUserHandler(userService, logger)
	sessionHandler := NewSessionHandler(sessionManager, logger)

	apiV1 := router.Group("/api/v1")
	{
		requests := apiV1.Group("/requests")
		{
			requests.GET("", requestHandler.List)
			requests.GET("/categories", requestHandler.Categories)
			requests.GET("/locations", requestHandler.Locations)
			requests.GET("/mine", authMW.VerifyToken(), requestHandler.Mine)
			requests.GET("/:requestId", requestHandler.Get)
			requests.POST("", authMW.VerifyToken(), requestHandler.Create)
			requests.POST("/:requestId/close", authMW.VerifyToken(), requestHandler.Close)
		}

		services := apiV1.Group("/services")
		{
			services.GET("", serviceHandler.List)
			services.GET("/categories", serviceHandler.Categories)
			services.GET("/locations", serviceHandler.Locations)
			services.GET("/mine", authMW.VerifyToken(), serviceHandler.Mine)
			services.GET("/:serviceId", serviceHandler.Get)
			services.POST("", authMW.VerifyToken(), serviceHandler.Create)
			services.POST("/details", authMW.VerifyToken(), serviceHandler.CreateDetail)
		}

		users := apiV1.Group("/users")
		{
			users.GET("/me", authMW.VerifyToken(), userHandler.Me)
			users.PUT("/me/certifications", authMW.VerifyToken(), userHandler.ReplaceCertifications)
			users.GET("/:userId", userHandler.Get)
		}

		sessionGroup := apiV1.Group("/session")
		{
			sessionGroup.GET("", sessionHandler.Current)
			sessionGroup.POST("/sign-in", sessionHandler.SignIn)
			sessionGroup.POST("/sign-out", sessionHandler.SignOut)
		}
	}

	// Page routes: every navigation passes through the guard, which awaits
	// session resolution and redirects per the route's auth metadata. The
	// handler itself just names the view; the SPA shell is served in front.
	routes := nav.Routes()
	guard := nav.NewGuard(routes, sessionManager, logger)
	pages := router.Group("/", guard.Middleware())
	for _, route := range routes {
		name := route.Name
		pages.GET(route.Path, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"route": name})
		})
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("routes configured", zap.Int("pageRoutes", len(routes)))
}
