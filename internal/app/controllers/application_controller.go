package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/app/models/dto"
	"github.com/yigit/vacantes/internal/app/services"
	"github.com/yigit/vacantes/internal/middleware"
)

// ApplicationController drives the application lifecycle
type ApplicationController struct {
	applicationService services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService) *ApplicationController {
	return &ApplicationController{applicationService: applicationService}
}

// Apply creates a pending application for the calling student
// @Summary Apply to vacancy
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vacancy ID" Format(int64) minimum(1)
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application created"
// @Failure 404 {object} dto.ErrorResponse "Vacancy not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate application or no seats available"
// @Failure 422 {object} dto.ErrorResponse "Resume missing"
// @Router /vacancies/{id}/applications [post]
func (c *ApplicationController) Apply(ctx *gin.Context) {
	student, found := caller(ctx)
	if !found {
		return
	}
	vacancyID, valid := idParam(ctx, "id", "vacancy")
	if !valid {
		return
	}

	app, err := c.applicationService.Create(ctx.Request.Context(), student.ID, vacancyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusCreated, toApplicationResponse(app), "Application submitted")
}

// ListForVacancy returns the applicants of one of the caller's vacancies
// @Summary List vacancy applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vacancy ID" Format(int64) minimum(1)
// @Param state query string false "PENDING, ACCEPTED or REJECTED"
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicationResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the vacancy owner"
// @Router /vacancies/{id}/applications [get]
func (c *ApplicationController) ListForVacancy(ctx *gin.Context) {
	owner, found := caller(ctx)
	if !found {
		return
	}
	vacancyID, valid := idParam(ctx, "id", "vacancy")
	if !valid {
		return
	}
	state, valid := stateFilter(ctx)
	if !valid {
		return
	}

	apps, err := c.applicationService.ListForVacancy(ctx.Request.Context(), vacancyID, owner, state)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toApplicationResponses(apps), "")
}

// Accept accepts a pending application
// @Summary Accept application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vacancy ID" Format(int64) minimum(1)
// @Param applicationId path int true "Application ID" Format(int64) minimum(1)
// @Param request body dto.RespondApplicationRequest false "Optional comment"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the vacancy owner"
// @Failure 409 {object} dto.ErrorResponse "Not pending or no seats available"
// @Router /vacancies/{id}/applications/{applicationId}/accept [post]
func (c *ApplicationController) Accept(ctx *gin.Context) {
	c.respond(ctx, models.ApplicationAccepted)
}

// Reject rejects a pending application
// @Summary Reject application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vacancy ID" Format(int64) minimum(1)
// @Param applicationId path int true "Application ID" Format(int64) minimum(1)
// @Param request body dto.RespondApplicationRequest false "Optional comment"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the vacancy owner"
// @Failure 409 {object} dto.ErrorResponse "Not pending"
// @Router /vacancies/{id}/applications/{applicationId}/reject [post]
func (c *ApplicationController) Reject(ctx *gin.Context) {
	c.respond(ctx, models.ApplicationRejected)
}

func (c *ApplicationController) respond(ctx *gin.Context, target models.ApplicationState) {
	owner, found := caller(ctx)
	if !found {
		return
	}
	vacancyID, valid := idParam(ctx, "id", "vacancy")
	if !valid {
		return
	}
	applicationID, valid := idParam(ctx, "applicationId", "application")
	if !valid {
		return
	}

	// the comment body is optional
	var req dto.RespondApplicationRequest
	if ctx.Request.ContentLength != 0 && !middleware.BindJSON(ctx, &req) {
		return
	}

	var (
		app *models.Application
		err error
	)
	if target == models.ApplicationAccepted {
		app, err = c.applicationService.Accept(ctx.Request.Context(), vacancyID, applicationID, owner, req.Comment)
	} else {
		app, err = c.applicationService.Reject(ctx.Request.Context(), vacancyID, applicationID, owner, req.Comment)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toApplicationResponse(app), "")
}

// ListMine returns the calling student's applications
// @Summary List my applications
// @Description Newest first, each with the live available seats of its vacancy
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param state query string false "PENDING, ACCEPTED or REJECTED"
// @Success 200 {object} dto.APIResponse{data=[]dto.MyApplicationResponse}
// @Router /applications/mine [get]
func (c *ApplicationController) ListMine(ctx *gin.Context) {
	student, found := caller(ctx)
	if !found {
		return
	}
	state, valid := stateFilter(ctx)
	if !valid {
		return
	}

	items, err := c.applicationService.ListMine(ctx.Request.Context(), student.ID, state)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toMyApplicationResponses(items), "")
}

// GetApplication returns an application to its student or the vacancy owner
// @Summary Get application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param applicationId path int true "Application ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a party"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{applicationId} [get]
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	requester, found := caller(ctx)
	if !found {
		return
	}
	applicationID, valid := idParam(ctx, "applicationId", "application")
	if !valid {
		return
	}

	app, err := c.applicationService.Get(ctx.Request.Context(), applicationID, requester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toApplicationResponse(app), "")
}

// Cancel withdraws the calling student's pending application
// @Summary Cancel application
// @Tags applications
// @Security BearerAuth
// @Param applicationId path int true "Application ID" Format(int64) minimum(1)
// @Success 204 "Application cancelled"
// @Failure 403 {object} dto.ErrorResponse "Not the applicant"
// @Failure 409 {object} dto.ErrorResponse "Not pending"
// @Router /applications/{applicationId} [delete]
func (c *ApplicationController) Cancel(ctx *gin.Context) {
	student, found := caller(ctx)
	if !found {
		return
	}
	applicationID, valid := idParam(ctx, "applicationId", "application")
	if !valid {
		return
	}

	if err := c.applicationService.Cancel(ctx.Request.Context(), applicationID, student.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
