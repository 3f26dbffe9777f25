package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AlfonsoGalocha/PetStore/internal/search"
)

type httpError struct {
	Error string `json:"error"`
}

// GET /search?q=&type=&limit=
func searchHandler(s search.Searcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := strings.TrimSpace(c.Query("q"))
		if len([]rune(q)) < 2 {
			c.JSON(http.StatusBadRequest, httpError{Error: "q must have at least 2 characters"})
			return
		}
		typ := c.Query("type")
		if typ != "" && typ != search.TypeProduct && typ != search.TypeCategory {
			c.JSON(http.StatusBadRequest, httpError{Error: "type must be 'product' or 'category'"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

		results, err := s.Search(c.Request.Context(), q, typ, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		if len(results) == 0 {
			c.JSON(http.StatusNotFound, httpError{Error: "no results for '" + q + "'"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"q": q, "results": results})
	}
}
