package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scout/config"
	"scout/controllers"
	"scout/middlewares"
	"scout/routes"
	"scout/services/pdfconvert"
	"scout/services/scraper"
	"scout/services/vision"
	"scout/sources/psql"
	"scout/sources/psql/dao"
	"scout/sources/storage"
	"scout/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	policy, err := config.LoadBlockPolicy(cfg.PolicyFile)
	if err != nil {
		logging.ErrorLogger.Error("block policy load error", zap.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	userDAO := dao.NewUserDAO(db.DB)
	recordDAO := dao.NewRecordDAO(db.DB)

	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		logging.ErrorLogger.Error("minio connection error", zap.Error(err))
		os.Exit(1)
	}

	engine := scraper.NewEngine(cfg, policy)
	scrapeCtrl := controllers.NewScrapeController(engine, minioClient, cfg)
	defer scrapeCtrl.Close()

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	docsCtrl := controllers.NewDocumentsController(
		pdfconvert.NewClient(cfg),
		vision.NewClient(cfg),
		recordDAO,
		minioClient,
	)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/documents", routes.DocumentRoutes(docsCtrl, cfg))
	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/", routes.ScrapeRoutes(scrapeCtrl))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
