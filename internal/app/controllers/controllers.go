// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vacantes/internal/app/models"
	"github.com/yigit/vacantes/internal/app/models/dto"
	"github.com/yigit/vacantes/internal/middleware"
)

var errInvalidID = errors.New("identifier must be a positive integer")

// parseIDParam parses a positive ID parameter from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// idParam parses paramName or writes a 400 and returns false
func idParam(ctx *gin.Context, paramName, label string) (int64, bool) {
	id, err := parseIDParam(ctx, paramName)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID").
			WithField(paramName).
			WithDetails(err.Error())
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// caller returns the authenticated account or writes a 401
func caller(ctx *gin.Context) (models.AccountRef, bool) {
	ref, ok := middleware.CallerFrom(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
			WithDetails("User information not found")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return models.AccountRef{}, false
	}
	return ref, true
}

// stateFilter reads the optional ?state= query
func stateFilter(ctx *gin.Context) (*models.ApplicationState, bool) {
	var filter dto.ApplicationFilterRequest
	if !middleware.BindQuery(ctx, &filter) {
		return nil, false
	}
	if filter.State == "" {
		return nil, true
	}
	state, err := models.ParseApplicationState(filter.State)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, false
	}
	return &state, true
}

func respondOK(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewSuccessResponse(data, message))
}
