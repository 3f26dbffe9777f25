package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cat "github.com/AlfonsoGalocha/PetStore/internal/category"
)

type httpError struct {
	Error string `json:"error"`
}

// GET /categories
func listCategoriesHandler(repo cat.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := repo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		if out == nil {
			out = []cat.Category{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out})
	}
}

// GET /categories/:id
func getCategoryHandler(repo cat.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ct, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, httpError{Error: "not found"})
			return
		}
		c.JSON(http.StatusOK, ct)
	}
}

// POST /categories
func createCategoryHandler(repo cat.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cat.CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			c.JSON(http.StatusBadRequest, httpError{Error: "name is required"})
			return
		}
		ct := &cat.Category{ID: uuid.NewString(), Name: req.Name, Description: req.Description}
		if err := repo.Create(c.Request.Context(), ct); err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, ct)
	}
}

// PUT /categories/:id es parcial.
func updateCategoryHandler(repo cat.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cat.CreateCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		ct := &cat.Category{ID: c.Param("id"), Name: req.Name, Description: req.Description}
		if err := repo.Update(c.Request.Context(), ct); err != nil {
			if errors.Is(err, cat.ErrNotFound) {
				c.JSON(http.StatusNotFound, httpError{Error: "not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), ct.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, httpError{Error: "not found"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// DELETE /categories/:id
func deleteCategoryHandler(repo cat.Repository) gin.HandlerFunc {
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
