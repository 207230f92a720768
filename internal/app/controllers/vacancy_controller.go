package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vacantes/internal/app/models/dto"
	"github.com/yigit/vacantes/internal/app/services"
	"github.com/yigit/vacantes/internal/middleware"
	"github.com/yigit/vacantes/internal/pkg/helpers"
)

// VacancyController handles vacancy publication and listing
type VacancyController struct {
	vacancyService  services.VacancyService
	capacityService services.CapacityService
}

// NewVacancyController creates a new VacancyController
func NewVacancyController(vacancyService services.VacancyService, capacityService services.CapacityService) *VacancyController {
	return &VacancyController{
		vacancyService:  vacancyService,
		capacityService: capacityService,
	}
}

// ListVacancies returns published vacancies
// @Summary List vacancies
// @Description Lists published vacancies, newest first, with live available seats
// @Tags vacancies
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.VacancyListResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vacancies [get]
func (c *VacancyController) ListVacancies(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	views, total, err := c.vacancyService.ListPublished(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.VacancyListResponse{
		Vacancies:  toVacancyResponses(views),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "")
}

// GetVacancy returns one vacancy
// @Summary Get vacancy
// @Tags vacancies
// @Produce json
// @Param id path int true "Vacancy ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.VacancyResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid vacancy ID format"
// @Failure 404 {object} dto.ErrorResponse "Vacancy not found"
// @Router /vacancies/{id} [get]
func (c *VacancyController) GetVacancy(ctx *gin.Context) {
	id, valid := idParam(ctx, "id", "vacancy")
	if !valid {
		return
	}

	view, err := c.vacancyService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toVacancyResponse(*view), "")
}

// GetSeats returns the live seat arithmetic for a vacancy
// @Summary Get available seats
// @Tags vacancies
// @Produce json
// @Param id path int true "Vacancy ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SeatsResponse}
// @Failure 404 {object} dto.ErrorResponse "Vacancy not found"
// @Router /vacancies/{id}/seats [get]
func (c *VacancyController) GetSeats(ctx *gin.Context) {
	id, valid := idParam(ctx, "id", "vacancy")
	if !valid {
		return
	}

	view, err := c.vacancyService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	seats, err := c.capacityService.AvailableSeats(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.SeatsResponse{
		VacancyID:      id,
		Capacity:       view.EffectiveCapacity(),
		AvailableSeats: seats,
	}, "")
}

// CreateVacancy publishes a vacancy owned by the caller
// @Summary Create vacancy
// @Description Professors and institutions publish vacancies. Capacity defaults to 1.
// @Tags vacancies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateVacancyRequest true "Vacancy information"
// @Success 201 {object} dto.APIResponse{data=dto.VacancyResponse} "Vacancy created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - Only vacancy owners"
// @Router /vacancies [post]
func (c *VacancyController) CreateVacancy(ctx *gin.Context) {
	owner, found := caller(ctx)
	if !found {
		return
	}

	var req dto.CreateVacancyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	view, err := c.vacancyService.Create(ctx.Request.Context(), owner, services.VacancyInput{
		Title:       req.Title,
		Description: req.Description,
		Capacity:    req.Capacity,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusCreated, toVacancyResponse(*view), "Vacancy created successfully")
}

// UpdateVacancy edits one of the caller's vacancies
// @Summary Update vacancy
// @Description Lowering capacity below the accepted count is allowed and leaves zero seats
// @Tags vacancies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vacancy ID" Format(int64) minimum(1)
// @Param request body dto.UpdateVacancyRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.VacancyResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the vacancy owner"
// @Failure 404 {object} dto.ErrorResponse "Vacancy not found"
// @Router /vacancies/{id} [put]
func (c *VacancyController) UpdateVacancy(ctx *gin.Context) {
	owner, found := caller(ctx)
	if !found {
		return
	}
	id, valid := idParam(ctx, "id", "vacancy")
	if !valid {
		return
	}

	var req dto.UpdateVacancyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	view, err := c.vacancyService.Update(ctx.Request.Context(), id, owner, services.VacancyUpdate{
		Title:       req.Title,
		Description: req.Description,
		Capacity:    req.Capacity,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toVacancyResponse(*view), "Vacancy updated successfully")
}

// DeleteVacancy removes one of the caller's vacancies
// @Summary Delete vacancy
// @Description Applications are removed with the vacancy; roster entries and messages remain
// @Tags vacancies
// @Security BearerAuth
// @Param id path int true "Vacancy ID" Format(int64) minimum(1)
// @Success 204 "Vacancy deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the vacancy owner"
// @Failure 404 {object} dto.ErrorResponse "Vacancy not found"
// @Router /vacancies/{id} [delete]
func (c *VacancyController) DeleteVacancy(ctx *gin.Context) {
	owner, found := caller(ctx)
	if !found {
		return
	}
	id, valid := idParam(ctx, "id", "vacancy")
	if !valid {
		return
	}

	if err := c.vacancyService.Delete(ctx.Request.Context(), id, owner); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListMyVacancies returns the caller's vacancies
// @Summary List my vacancies
// @Tags vacancies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.VacancyResponse}
// @Failure 403 {object} dto.ErrorResponse "Only vacancy owners"
// @Router /vacancies/mine [get]
func (c *VacancyController) ListMyVacancies(ctx *gin.Context) {
	owner, found := caller(ctx)
	if !found {
		return
	}

	views, err := c.vacancyService.ListByOwner(ctx.Request.Context(), owner)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, toVacancyResponses(views), "")
}
