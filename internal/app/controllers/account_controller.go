package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vacantes/internal/app/services"
	"github.com/yigit/vacantes/internal/middleware"
)

// AccountController exposes the identity directory
type AccountController struct {
	directory services.DirectoryService
}

// NewAccountController creates a new AccountController
func NewAccountController(directory services.DirectoryService) *AccountController {
	return &AccountController{directory: directory}
}

// GetMe returns the caller's account
// @Summary Get current account
// @Description Resolves the caller's token identity to a student, professor or institution
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AccountResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /accounts/me [get]
func (c *AccountController) GetMe(ctx *gin.Context) {
	ref, found := caller(ctx)
	if !found {
		return
	}

	acc, err := c.directory.Resolve(ctx.Request.Context(), ref)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toAccountResponse(acc), "")
}
