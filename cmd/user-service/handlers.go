package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AlfonsoGalocha/PetStore/internal/user"
)

type httpError struct {
	Error string `json:"error"`
}

// POST /users/register
func registerHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.TrimSpace(req.Email)
		if req.Username == "" || req.Email == "" || len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, httpError{Error: "username, email and a password of at least 6 characters are required"})
			return
		}
		if !strings.Contains(req.Email, "@") {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid email"})
			return
		}

		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: "could not hash password"})
			return
		}
		role := req.Role
		if role == "" {
			role = "customer"
		}
		u := &user.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			PhoneNumber:  req.PhoneNumber,
			Role:         role,
		}
		if err := repo.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, httpError{Error: "username or email already in use"})
				return
			}
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

// POST /users/login devuelve el id del usuario, no un token.
func loginHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		u, err := repo.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !user.CheckPassword(u.PasswordHash, req.Password) {
			// same answer for unknown email and bad password
			c.JSON(http.StatusUnauthorized, httpError{Error: "invalid credentials"})
			return
		}
		if err := repo.TouchLastLogin(c.Request.Context(), u.ID); err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "username": u.Username, "role": u.Role})
	}
}

// GET /users/:id
func getUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := repo.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, httpError{Error: "not found"})
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// PUT /users/:id is partial; the password changes only when sent.
func updateUserHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req user.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		updatePassword := req.Password != ""
		u := &user.User{
			ID:          c.Param("id"),
			Username:    req.Username,
			Email:       req.Email,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			PhoneNumber: req.PhoneNumber,
		}
		if updatePassword {
			if len(req.Password) < 6 {
				c.JSON(http.StatusBadRequest, httpError{Error: "password must have at least 6 characters"})
				return
			}
			hash, err := user.HashPassword(req.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, httpError{Error: "could not hash password"})
				return
			}
			u.PasswordHash = hash
		}
		if err := repo.Update(c.Request.Context(), u, updatePassword); err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		out, err := repo.GetByID(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, httpError{Error: "not found"})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// DELETE /users/:id
func deleteUserHandler(repo user.Repository) gin.HandlerFunc {
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

// GET /users/:id/address
func getAddressHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := repo.GetAddress(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, user.ErrNoAddress) {
				c.JSON(http.StatusNotFound, httpError{Error: "no address on file"})
				return
			}
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// PUT /users/:id/address upserts the address orders validate against.
func putAddressHandler(repo user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := repo.GetByID(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusNotFound, httpError{Error: "not found"})
			return
		}
		var a user.Address
		if err := c.ShouldBindJSON(&a); err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: "invalid json"})
			return
		}
		if a.Street == "" || a.City == "" || a.Country == "" {
			c.JSON(http.StatusBadRequest, httpError{Error: "street, city and country are required"})
			return
		}
		if err := repo.PutAddress(c.Request.Context(), id, a); err != nil {
			c.JSON(http.StatusInternalServerError, httpError{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, a)
	}
}
