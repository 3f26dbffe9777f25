package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	cat "github.com/AlfonsoGalocha/PetStore/internal/category"
	"github.com/AlfonsoGalocha/PetStore/internal/config"
	"github.com/AlfonsoGalocha/PetStore/internal/db"
	"github.com/AlfonsoGalocha/PetStore/internal/httpx"
	"github.com/AlfonsoGalocha/PetStore/internal/metrics"
)

func buildRouter(repo cat.Repository, m *metrics.ServerMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/categories", listCategoriesHandler(repo))
	api.GET("/categories/:id", getCategoryHandler(repo))
	api.POST("/categories", createCategoryHandler(repo))
	api.PUT("/categories/:id", updateCategoryHandler(repo))
	api.DELETE("/categories/:id", deleteCategoryHandler(repo))
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

	m := metrics.NewServerMetrics("category")
	r := buildRouter(cat.NewPGRepo(pool), m)

	log.Printf("category-service listening on %s", cfg.CategorySvcAddr)
	if err := httpx.Serve(cfg.CategorySvcAddr, r); err != nil {
		log.Fatal(err)
	}
}
