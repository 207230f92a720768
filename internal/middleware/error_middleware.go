package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yigit/vacantes/internal/app/models/dto"
	"github.com/yigit/vacantes/internal/pkg/apperrors"
)

type errorMapping struct {
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings maps taxonomy kinds to transport outcomes. An empty message
// means the error's own text is safe to show.
var errorMappings = map[string]errorMapping{
	apperrors.KindAccountNotFound:        {http.StatusNotFound, dto.ErrorCodeAccountNotFound, ""},
	apperrors.KindVacancyNotFound:        {http.StatusNotFound, dto.ErrorCodeVacancyNotFound, ""},
	apperrors.KindNotFound:               {http.StatusNotFound, dto.ErrorCodeResourceNotFound, ""},
	apperrors.KindForbidden:              {http.StatusForbidden, dto.ErrorCodeForbidden, ""},
	apperrors.KindNotOwner:               {http.StatusForbidden, dto.ErrorCodeNotOwner, ""},
	apperrors.KindInvalidStateTransition: {http.StatusConflict, dto.ErrorCodeInvalidStateTransition, ""},
	apperrors.KindDuplicateApplication:   {http.StatusConflict, dto.ErrorCodeDuplicateApplication, ""},
	apperrors.KindNoSeatsAvailable:       {http.StatusConflict, dto.ErrorCodeNoSeatsAvailable, ""},
	apperrors.KindMissingPrerequisite:    {http.StatusUnprocessableEntity, dto.ErrorCodeMissingPrerequisite, ""},
	apperrors.KindInvalidPairing:         {http.StatusForbidden, dto.ErrorCodeInvalidPairing, ""},
	apperrors.KindNoRelationshipExists:   {http.StatusForbidden, dto.ErrorCodeNoRelationshipExists, ""},
	apperrors.KindValidationError:        {http.StatusBadRequest, dto.ErrorCodeValidationFailed, ""},
	apperrors.KindUnknownAccountKind:     {http.StatusBadRequest, dto.ErrorCodeUnknownAccountKind, ""},
	apperrors.KindConflict:               {http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, ""},
	apperrors.KindRateLimited:            {http.StatusTooManyRequests, dto.ErrorCodeRateLimited, ""},
	apperrors.KindUnauthorized:           {http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Authentication failed"},
}

// HandleAPIError writes the response for a service error. Anything outside
// the taxonomy becomes a 500 with a generic message; the cause is logged only.
func HandleAPIError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)

	m, ok := errorMappings[kind]
	if !ok {
		log.Error().Err(err).
			Str("requestID", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")

		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		))
		return
	}

	message := m.message
	if message == "" {
		message = err.Error()
	}

	detail := dto.NewErrorDetail(m.code, message).WithDetails(gin.H{"kind": kind})
	if m.status < http.StatusInternalServerError {
		detail = detail.WithSeverity(dto.ErrorSeverityWarning)
	}
	c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
}
