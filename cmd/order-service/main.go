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
	"github.com/AlfonsoGalocha/PetStore/internal/inventory"
	"github.com/AlfonsoGalocha/PetStore/internal/metrics"
	ord "github.com/AlfonsoGalocha/PetStore/internal/order"
	"github.com/AlfonsoGalocha/PetStore/internal/user"
)

func newRouter(wf *ord.Workflow, store ord.Store, m *metrics.ServerMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics(m))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.POST("/orders", createOrderHandler(wf))
	api.GET("/orders", listOrdersHandler(store))
	api.GET("/orders/:id", getOrderHandler(store))
	api.GET("/orders/:id/items", getOrderItemsHandler(store))
	api.POST("/orders/:id/cancel", cancelOrderHandler(wf))
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

	store := ord.NewPGStore(pool)
	wf := &ord.Workflow{
		Addresses:      user.NewAddressValidator(user.NewPGRepo(pool)),
		Carts:          cart.NewPGRepo(pool),
		Ledger:         inventory.NewPGLedger(pool),
		Store:          store,
		PersistTimeout: cfg.PersistTimeout,
		PersistRetries: cfg.PersistRetries,
	}

	m := metrics.NewServerMetrics("order")
	r := newRouter(wf, store, m)

	log.Printf("order-service listening on %s", cfg.OrderSvcAddr)
	if err := httpx.Serve(cfg.OrderSvcAddr, r); err != nil {
		log.Fatal(err)
	}
}
