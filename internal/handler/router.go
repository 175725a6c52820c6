package handler

import (
	"net/http"

	"longevityhub/internal/config"
	"longevityhub/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth      *AuthHandler
	Meals     *MealHandler
	Workouts  *WorkoutHandler
	Sleep     *SleepHandler
	Wearables *WearableHandler
	Goals     *GoalHandler
	Foods     *FoodHandler
	Analytics *AnalyticsHandler
	Chat      *ChatHandler
	Admin     *AdminHandler
}

// SetupRouter wires middleware and routes. Only the configured dev origins
// may send credentialed requests.
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"ok": false, "error": "method_not_allowed"})
	})

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)

	authed := api.Group("", middleware.SessionAuth([]byte(cfg.Auth.Secret), cfg.Auth.CookieName, cfg.Auth.CookieSecure))
	{
		authed.GET("/auth/me", h.Auth.Me)

		authed.POST("/meals", h.Meals.Create)
		authed.GET("/meals", h.Meals.List)
		authed.GET("/meals/:id", h.Meals.Get)
		authed.PUT("/meals/:id", h.Meals.Update)
		authed.DELETE("/meals/:id", h.Meals.Delete)

		authed.POST("/workouts", h.Workouts.Create)
		authed.GET("/workouts", h.Workouts.List)
		authed.GET("/workouts/:id", h.Workouts.Get)
		authed.DELETE("/workouts/:id", h.Workouts.Delete)

		authed.POST("/sleep", h.Sleep.Create)
		authed.GET("/sleep", h.Sleep.List)
		authed.DELETE("/sleep/:id", h.Sleep.Delete)

		authed.POST("/wearables", h.Wearables.Upsert)
		authed.GET("/wearables", h.Wearables.List)
		authed.POST("/wearables/import", h.Wearables.ImportCSV)

		authed.GET("/goals", h.Goals.List)
		authed.POST("/goals", h.Goals.Set)
		authed.PUT("/goals/:id", h.Goals.Update)
		authed.DELETE("/goals/:id", h.Goals.Deactivate)

		authed.GET("/foods", h.Foods.Search)

		authed.GET("/readiness", h.Analytics.Readiness)
		authed.GET("/nutrients_summary", h.Analytics.NutrientsSummary)
		authed.GET("/goal_progress", h.Analytics.GoalProgress)
		authed.GET("/trends", h.Analytics.Trends)
		authed.GET("/dashboard", h.Analytics.Dashboard)
		authed.GET("/export", h.Analytics.Export)

		authed.POST("/chat", h.Chat.Ask)

		admin := authed.Group("/admin", middleware.RequireAdmin())
		{
			admin.GET("/users", h.Admin.ListUsers)
			admin.PUT("/users/:id", h.Admin.UpdateUser)
			admin.DELETE("/users/:id", h.Admin.DeleteUser)
			admin.POST("/foods", h.Admin.CreateFood)
			admin.PUT("/foods/:id", h.Admin.UpdateFood)
			admin.DELETE("/foods/:id", h.Admin.DeleteFood)
		}
	}

	return r
}
