// cmd/api/main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"expense-tracker/internal/auth"
	"expense-tracker/internal/config"
	"expense-tracker/internal/filestore"
	"expense-tracker/internal/handler"
	"expense-tracker/internal/middleware"
	"expense-tracker/internal/service"
	"expense-tracker/internal/storage/postgres"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	pool, err := pgxpool.New(context.Background(), cfg.DBConn)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := postgres.NewStorage(pool)

	files, err := filestore.New(cfg.UploadDir)
	if err != nil {
		slog.Error("Upload directory unavailable", "error", err, "dir", cfg.UploadDir)
		os.Exit(1)
	}

	tokenService := auth.NewTokenService(cfg)

	now := func() time.Time { return time.Now().In(cfg.Location) }
	expenses := service.NewExpenseService(store, files, now)

	users := handler.NewUserHandler(store, tokenService)
	categories := handler.NewCategoryHandler(store)
	expenseHandler := handler.NewExpenseHandler(expenses)
	authMw := middleware.NewAuthMiddleware(tokenService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/register", users.Register)
	router.POST("/login", users.Login)

	protected := router.Group("/", authMw.RequireAuth())
	{
		protected.POST("/expenses", expenseHandler.Create)
		protected.GET("/expenses", expenseHandler.List)
		protected.GET("/expenses/all", expenseHandler.ListAll)
		protected.GET("/expenses/recent", expenseHandler.Recent)
		protected.GET("/expenses/available-years", expenseHandler.AvailableYears)
		protected.GET("/expenses/general-summary", expenseHandler.GeneralSummary)
		protected.GET("/expenses/by-category", expenseHandler.ByCategory)
		protected.GET("/expenses/last_5_months", expenseHandler.LastFiveMonths)
		protected.GET("/expenses/:id", expenseHandler.Get)
		protected.PUT("/expenses/:id", expenseHandler.Update)
		protected.DELETE("/expenses/:id", expenseHandler.Delete)

		protected.POST("/categories", categories.Create)
		protected.GET("/categories", categories.List)
		protected.GET("/categories/:id", categories.Get)
		protected.PUT("/categories/:id", categories.Update)
		protected.DELETE("/categories/:id", categories.Delete)
	}

	slog.Info("API listening", "addr", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
