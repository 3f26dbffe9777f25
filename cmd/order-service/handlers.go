package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	ord "github.com/AlfonsoGalocha/PetStore/internal/order"
)

func failureStatus(f *ord.Failure) int {
	switch f.Kind {
	case ord.KindAddressMismatch, ord.KindEmptyCart:
		return http.StatusBadRequest
	case ord.KindNoAddressOnFile, ord.KindCartNotFound, ord.KindProductNotFound, ord.KindOrderNotFound:
		return http.StatusNotFound
	case ord.KindOutOfStock, ord.KindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeFailure(c *gin.Context, err error) {
	var f *ord.Failure
	if errors.As(err, &f) {
		c.JSON(failureStatus(f), f)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// POST /api/orders
func createOrderHandler(wf *ord.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ord.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.UserID == "" || req.PaymentMethod == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and paymentmethod are required"})
			return
		}
		o, items, err := wf.Create(c.Request.Context(), req.UserID, req.PaymentMethod, req.ShippingAddress)
		if err != nil {
			writeFailure(c, err)
			return
		}
		c.JSON(http.StatusCreated, ord.OrderResponse{Order: *o, Items: items})
	}
}

// GET /api/orders
func listOrdersHandler(store ord.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		var (
			orders []ord.Order
			err    error
		)
		if userID := c.Query("user_id"); userID != "" {
			orders, err = store.ListByUser(c.Request.Context(), userID, limit, offset)
		} else {
			orders, err = store.List(c.Request.Context(), limit, offset)
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if orders == nil {
			orders = []ord.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /api/orders/:id
func getOrderHandler(store ord.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, items, err := store.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, ord.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, ord.OrderResponse{Order: *o, Items: items})
	}
}

// GET /api/orders/:id/items
func getOrderItemsHandler(store ord.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, err := store.GetByID(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		items, err := store.GetItems(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if items == nil {
			items = []ord.Item{}
		}
		c.JSON(http.StatusOK, items)
	}
}

// POST /api/orders/:id/cancel
func cancelOrderHandler(wf *ord.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := wf.Cancel(c.Request.Context(), c.Param("id")); err != nil {
			writeFailure(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully"})
	}
}
