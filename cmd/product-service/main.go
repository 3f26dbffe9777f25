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
)

func buildRouter(repo prod.Repository, m *metrics.ServerMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.GET("/products", listOnlyHandler(repo))
	api.GET("/products/search", searchHandler(repo))
	api.GET("/products/:id", getProductHandler(repo))
	api.POST("/products", createProductHandler(repo))
	api.PUT("/products/:id", updateProductHandler(repo))
	api.DELETE("/products/:id", deleteProductHandler(repo))
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

	m := metrics.NewServerMetrics("product")
	r := buildRouter(prod.NewPGRepo(pool), m)

	log.Printf("product-service listening on %s", cfg.ProductSvcAddr)
	if err := httpx.Serve(cfg.ProductSvcAddr, r); err != nil {
		log.Fatal(err)
	}
}
