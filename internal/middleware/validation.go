package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vacantes/internal/app/models/dto"
	"github.com/yigit/vacantes/internal/pkg/validation"
)

var validate = validation.New()

// ValidateStruct runs the shared validator and converts failures into an
// error detail, or returns nil when obj is valid.
func ValidateStruct(obj interface{}) *dto.ErrorDetail {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	issues := validation.Issues(err)
	if issues == nil {
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").WithDetails(err.Error())
	}

	errs := dto.NewValidationErrors()
	for _, issue := range issues {
		errs.AddError(issue.Field, issue.Message)
	}
	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
		WithField(issues[0].Field).
		WithDetails(errs.Errors)
}

// BindJSON decodes and validates the body into obj. On failure it writes the
// 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").WithDetails(err.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	if detail := ValidateStruct(obj); detail != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return false
	}
	return true
}

// BindQuery is BindJSON for query parameters
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid query parameters").WithDetails(err.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	if detail := ValidateStruct(obj); detail != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return false
	}
	return true
}
