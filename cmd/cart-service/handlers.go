package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlfonsoGalocha/PetStore/internal/cart"
	prod "github.com/AlfonsoGalocha/PetStore/internal/product"
)

type httpError struct {
	Error string `json:"error"`
}

// checkLines validates quantities and product availability against the
// catalog. This is advisory only: the stock guard that actually holds is the
// conditional reservation at checkout.
func checkLines(ctx context.Context, products prod.Repository, items []cart.Line) error {
	if len(items) == 0 {
		return errors.New("items must not be empty")
	}
	for _, l := range items {
		if l.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive for product %s", l.ProductID)
		}
		p, err := products.GetByID(ctx, l.ProductID)
		if err != nil {
			return fmt.Errorf("product %s not found", l.ProductID)
		}
		if p.Stock < l.Quantity {
			return fmt.Errorf("not enough stock for product %s", l.ProductID)
		}
	}
	return nil
}

// priceCart fills in Total from the catalog's current prices. Cart totals are
// always live; only orders freeze prices.
func priceCart(ctx context.Context, products prod.Repository, c *cart.Cart) error {
	total := decimal.Zero
	for _, l := range c.Items {
		p, err := products.GetByID(ctx, l.ProductID)
		if err != nil {
			// producto borrado después de añadirse al carrito: no cuenta
			continue
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("bad price for product %s: %w", l.ProductID, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	c.Total = total.StringFixed(2)
	return nil
}

// POST /carts
func createCartHandler(repo cart.Repository, products prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.CreateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusBadRequest, httpError{Error: "user_id is required"})
			return
		}
		if err := checkLines(c.Request.Context(), products, req.Items); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}
		if _, err := repo.GetByUser(c.Request.Context(), req.UserID); err == nil {
			c.JSON(http.StatusConflict, httpError{Error: "user already has a cart"})
			return
		}

		ct := &cart.Cart{ID: uuid.NewString(), UserID: req.UserID, Items: req.Items}
		if err := repo.Create(c.Request.Context(), ct); err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), ct.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		if err := priceCart(c.Request.Context(), products, out); err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// GET /carts
func listCartsHandler(repo cart.Repository, products prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		carts, err := repo.List(c.Request.Context(), limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		if carts == nil {
			carts = []cart.Cart{}
		}
		for i := range carts {
			if err := priceCart(c.Request.Context(), products, &carts[i]); err != nil {
				c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": carts, "limit": limit, "offset": offset})
	}
}

// GET /carts/:id, with ?by=user to look up by owner instead.
func getCartHandler(repo cart.Repository, products prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			ct  *cart.Cart
			err error
		)
		if c.Query("by") == "user" {
			ct, err = repo.GetByUser(c.Request.Context(), c.Param("id"))
		} else {
			ct, err = repo.GetByID(c.Request.Context(), c.Param("id"))
		}
		if err != nil {
			c.JSON(http.StatusNotFound, httpError{Error: "not found"})
			return
		}
		if err := priceCart(c.Request.Context(), products, ct); err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

// PUT /carts/:id reemplaza todas las líneas.
func updateCartHandler(repo cart.Repository, products prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cart.UpdateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		if err := checkLines(c.Request.Context(), products, req.Items); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}
		if err := repo.ReplaceItems(c.Request.Context(), c.Param("id"), req.Items); err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				c.JSON(http.StatusNotFound, httpError{Error: "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		if err := priceCart(c.Request.Context(), products, out); err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// DELETE /carts/:id
func deleteCartHandler(repo cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, httpError{Error: "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
