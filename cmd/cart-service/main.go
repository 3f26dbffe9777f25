package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlfonsoGalocha/PetStore/internal/cart"
	"github.com/AlfonsoGalocha/PetStore/internal/config"
	"github.com/AlfonsoGalocha/PetStore/internal/db"
	"github.com/AlfonsoGalocha/PetStore/internal/httpx"
	"github.com/AlfonsoGalocha/PetStore/internal/metrics"
	prod "github.com/AlfonsoGalocha/PetStore/internal/product"
)

func buildRouter(repo cart.Repository, products prod.Repository, m *metrics.ServerMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.POST("/carts", createCartHandler(repo, products))
	api.GET("/carts", listCartsHandler(repo, products))
	api.GET("/carts/:id", getCartHandler(repo, products))
	api.PUT("/carts/:id", updateCartHandler(repo, products))
	api.DELETE("/carts/:id", deleteCartHandler(repo))
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

	m := metrics.NewServerMetrics("cart")
	r := buildRouter(cart.NewPGRepo(pool), prod.NewPGRepo(pool), m)

	log.Printf("cart-service listening on %s", cfg.CartSvcAddr)
	if err := httpx.Serve(cfg.CartSvcAddr, r); err != nil {
		log.Fatal(err)
	}
}
