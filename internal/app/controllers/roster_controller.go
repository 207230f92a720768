package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vacantes/internal/app/models/dto"
	"github.com/yigit/vacantes/internal/app/services"
	"github.com/yigit/vacantes/internal/middleware"
)

// RosterController exposes the association ledger to vacancy owners
type RosterController struct {
	ledger services.AssociationService
}

// NewRosterController creates a new RosterController
func NewRosterController(ledger services.AssociationService) *RosterController {
	return &RosterController{ledger: ledger}
}

// GetRoster lists the caller's roster
// @Summary Get roster
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.AssociationResponse}
// @Router /roster [get]
func (c *RosterController) GetRoster(ctx *gin.Context) {
	owner, found := caller(ctx)
	if !found {
		return
	}

	entries, err := c.ledger.Roster(ctx.Request.Context(), owner)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toAssociationResponses(entries), "")
}

// Reconcile appends roster entries missing for accepted applications
// @Summary Reconcile roster
// @Description Idempotent; repairs the roster after a failed post-accept append
// @Tags roster
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ReconcileResponse}
// @Router /roster/reconcile [post]
func (c *RosterController) Reconcile(ctx *gin.Context) {
	owner, found := caller(ctx)
	if !found {
		return
	}

	appended, err := c.ledger.Reconcile(ctx.Request.Context(), owner)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ReconcileResponse{Appended: appended}, "")
}
