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
	prod "github.com/AlfonsoGalocha/PetStore/internal/product"
	rev "github.com/AlfonsoGalocha/PetStore/internal/review"
)

func buildRouter(repo rev.Repository, products prod.Repository, m *metrics.ServerMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/products/:id/reviews", listReviewsHandler(repo, products))
	api.POST("/products/:id/reviews", createReviewHandler(repo, products))
	api.PUT("/products/:id/reviews/:reviewId", updateReviewHandler(repo))
	api.DELETE("/products/:id/reviews/:reviewId", deleteReviewHandler(repo))
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

	m := metrics.NewServerMetrics("review")
	r := buildRouter(rev.NewPGRepo(pool), prod.NewPGRepo(pool), m)

	log.Printf("review-service listening on %s", cfg.ReviewSvcAddr)
	if err := httpx.Serve(cfg.ReviewSvcAddr, r); err != nil {
		log.Fatal(err)
	}
}
