package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	prod "github.com/AlfonsoGalocha/PetStore/internal/product"
)

func parsePage(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

func validPrice(s string) bool {
	d, err := decimal.NewFromString(s)
	return err == nil && !d.IsNegative()
}

// GET /products lista con paginación, nunca busca.
func listOnlyHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := parsePage(c)
		items, err := repo.List(c.Request.Context(), prod.Query{Limit: limit, Offset: offset})
		if err != nil {
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		if items == nil {
			items = []prod.Product{}
		}
		c.JSON(http.StatusOK, prod.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

// GET /products/search?q= requires q of at least 2 runes.
func searchHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if len([]rune(q)) < 2 {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "q must have at least 2 characters"})
			return
		}
		limit, offset := parsePage(c)
		items, err := repo.List(c.Request.Context(), prod.Query{Q: q, Limit: limit, Offset: offset})
		if err != nil {
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		if items == nil {
			items = []prod.Product{}
		}
		c.JSON(http.StatusOK, prod.ListResponse{Q: q, Limit: limit, Offset: offset, Items: items})
	}
}

// GET /products/:id
func getProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, prod.HTTPError{Error: "not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// POST /products
func createProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prod.CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "invalid json"})
			return
		}
		if req.Name == "" || req.Price == "" || !validPrice(req.Price) || req.Stock < 0 {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "name, valid price and non-negative stock are required"})
			return
		}
		p := &prod.Product{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			CategoryID:  req.CategoryID,
			AnimalType:  req.AnimalType,
			Brand:       req.Brand,
			Stock:       req.Stock,
			Images:      req.Images,
		}
		if err := repo.Create(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// PUT /products/:id is partial; the price changes only when sent.
func updateProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req prod.UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "invalid json"})
			return
		}
		if req.Stock < 0 {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "stock must be non-negative"})
			return
		}
		updatePrice := req.Price != ""
		if updatePrice && !validPrice(req.Price) {
			c.JSON(http.StatusBadRequest, prod.HTTPError{Error: "invalid price"})
			return
		}
		p := &prod.Product{
			ID:          c.Param("id"),
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			AnimalType:  req.AnimalType,
			Brand:       req.Brand,
			Stock:       req.Stock,
			Images:      req.Images,
		}
		if err := repo.Update(c.Request.Context(), p, updatePrice); err != nil {
			if errors.Is(err, prod.ErrNotFound) {
				c.JSON(http.StatusNotFound, prod.HTTPError{Error: "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, prod.HTTPError{Error: "not found"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// DELETE /products/:id
func deleteProductHandler(repo prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, prod.HTTPError{Error: err.Error()})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, prod.HTTPError{Error: "not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
