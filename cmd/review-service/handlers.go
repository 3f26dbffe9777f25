package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	prod "github.com/AlfonsoGalocha/PetStore/internal/product"
	rev "github.com/AlfonsoGalocha/PetStore/internal/review"
)

type httpError struct {
	Error string `json:"error"`
}

// GET /products/:id/reviews
func listReviewsHandler(repo rev.Repository, products prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Param("id")
		if _, err := products.GetByID(c.Request.Context(), productID); err != nil {
			c.JSON(http.StatusNotFound, httpError{Error: "product not found"})
			return
		}
		out, err := repo.ListByProduct(c.Request.Context(), productID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		if out == nil {
			out = []rev.Review{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

// POST /products/:id/reviews
func createReviewHandler(repo rev.Repository, products prod.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID := c.Param("id")
		if _, err := products.GetByID(c.Request.Context(), productID); err != nil {
			c.JSON(http.StatusNotFound, httpError{Error: "product not found"})
			return
		}
		var req rev.CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		if req.UserID == "" {
			c.JSON(http.StatusBadRequest, httpError{Error: "user_id is required"})
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, httpError{Error: "rating must be between 1 and 5"})
			return
		}
		r := &rev.Review{
			ID:        uuid.NewString(),
			ProductID: productID,
			UserID:    req.UserID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := repo.Create(c.Request.Context(), r); err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

// PUT /products/:id/reviews/:reviewId
func updateReviewHandler(repo rev.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req rev.CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		if req.Rating < 1 || req.Rating > 5 {
			c.JSON(http.StatusBadRequest, httpError{Error: "rating must be between 1 and 5"})
			return
		}
		r := &rev.Review{
			ID:        c.Param("reviewId"),
			ProductID: c.Param("id"),
			UserID:    req.UserID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := repo.Update(c.Request.Context(), r); err != nil {
			if errors.Is(err, rev.ErrNotFound) {
				c.JSON(http.StatusNotFound, httpError{Error: "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

// DELETE /products/:id/reviews/:reviewId
func deleteReviewHandler(repo rev.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := repo.Delete(c.Request.Context(), c.Param("id"), c.Param("reviewId"))
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
