package main

import (
	"flag"
	"log/slog"
	"os"

	"longevityhub/internal/config"
	"longevityhub/internal/handler"
	"longevityhub/internal/logger"
	"longevityhub/internal/model"
	"longevityhub/internal/service"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	if cfg.Auth.Secret == "" {
		slog.Error("auth secret not configured, set LH_AUTH_SECRET")
		os.Exit(1)
	}

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := model.Migrate(db); err != nil {
		slog.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	authSvc := service.NewAuthService(db)
	mealSvc := service.NewMealService(db)
	workoutSvc := service.NewWorkoutService(db)
	sleepSvc := service.NewSleepService(db)
	wearableSvc := service.NewWearableService(db)
	goalSvc := service.NewGoalService(db)
	catalogSvc := service.NewCatalogService(db)
	adminSvc := service.NewAdminService(db)

	analyticsSvc := service.NewAnalyticsService(
		service.NewMetricsStore(db), service.NewScoreSource(db), goalSvc)
	exportSvc := service.NewExportService(mealSvc, workoutSvc, sleepSvc, wearableSvc)

	llm := service.NewLLMClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	chatSvc := service.NewChatService(llm, analyticsSvc)

	r := handler.SetupRouter(cfg, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc, cfg.Auth),
		Meals:     handler.NewMealHandler(mealSvc),
		Workouts:  handler.NewWorkoutHandler(workoutSvc),
		Sleep:     handler.NewSleepHandler(sleepSvc),
		Wearables: handler.NewWearableHandler(wearableSvc),
		Goals:     handler.NewGoalHandler(goalSvc),
		Foods:     handler.NewFoodHandler(catalogSvc),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc, exportSvc),
		Chat:      handler.NewChatHandler(chatSvc),
		Admin:     handler.NewAdminHandler(adminSvc, catalogSvc),
	})

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
