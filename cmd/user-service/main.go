package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlfonsoGalocha/PetStore/internal/config"
	"github.com/AlfonsoGalocha/PetStore/internal/db"
	"github.com/AlfonsoGalocha/PetStore/internal/httpx"
	"github.com/AlfonsoGalocha/PetStore/internal/metrics"
	"github.com/AlfonsoGalocha/PetStore/internal/user"
)

func buildRouter(repo user.Repository, m *metrics.ServerMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.POST("/users/register", registerHandler(repo))
	api.POST("/users/login", loginHandler(repo))
	api.GET("/users/:id", getUserHandler(repo))
	api.PUT("/users/:id", updateUserHandler(repo))
	api.DELETE("/users/:id", deleteUserHandler(repo))
	api.GET("/users/:id/address", getAddressHandler(repo))
	api.PUT("/users/:id/address", putAddressHandler(repo))
	return r
}

func main() {
	cfg := config.Load()

	if err := db.Migrate(cfg.PostgresDSN); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	pool, err := db.Open(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer pool.Close()

	m := metrics.NewServerMetrics("user")
	r := buildRouter(user.NewPGRepo(pool), m)

	log.Printf("user-service listening on %s", cfg.UserSvcAddr)
	if err := httpx.Serve(cfg.UserSvcAddr, r); err != nil {
		log.Fatal(err)
	}
}
