package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/shwetank-antino/task-management-api/internal/auth"
	"github.com/shwetank-antino/task-management-api/internal/config"
	"github.com/shwetank-antino/task-management-api/internal/database"
	"github.com/shwetank-antino/task-management-api/internal/tasks"
	"github.com/shwetank-antino/task-management-api/internal/users"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded, continuing with environment variables")
	}

	if m := os.Getenv("GIN_MODE"); m != "" {
		gin.SetMode(m)
	} else if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db, &users.User{}, &tasks.Task{}); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	r := newRouter(cfg, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("shutting down, draining in-flight requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("server stopped")
}

func newRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authHandler := auth.NewHandler(db, tokens, cfg.Production())
	userHandler := users.NewHandler(db)
	taskHandler := tasks.NewHandler(db)

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", auth.RequireAuth(tokens), authHandler.Logout)

	userGroup := v1.Group("/users", auth.RequireAuth(tokens))
	userGroup.GET("", auth.RequireRole(users.RoleAdmin), userHandler.List)
	userGroup.GET("/me", userHandler.Me)
	userGroup.PATCH("/:id/role", auth.RequireRole(users.RoleAdmin), userHandler.UpdateRole)
	userGroup.DELETE("/:id", auth.RequireRole(users.RoleAdmin), userHandler.Delete)

	taskGroup := v1.Group("/tasks", auth.RequireAuth(tokens))
	taskGroup.GET("/stats", taskHandler.Stats)
	taskGroup.GET("", taskHandler.List)
	taskGroup.POST("", taskHandler.Create)
	taskGroup.GET("/:id", taskHandler.Get)
	taskGroup.PATCH("/:id", taskHandler.Update)
	taskGroup.DELETE("/:id", taskHandler.Delete)

	return r
}
