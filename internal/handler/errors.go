package handler

import (
	"errors"
	"net/http"
	"strconv"

	"edlink/internal/domain"
	"edlink/internal/logger"
	"edlink/internal/response"

	"github.com/gin-gonic/gin"
)

var errInvalidSubjectID = errors.New("invalid subject_id")

// writeError maps domain errors to HTTP statuses. Unclassified errors are
// logged and reported as an opaque 500.
func writeError(c *gin.Context, err error) {
	code := domain.Code(err)
	switch code {
	case domain.CodeUnauthenticated:
		response.Error(c, http.StatusUnauthorized, code, "authentication required")
	case domain.CodeAccessDenied:
		response.Error(c, http.StatusForbidden, code, domain.ErrAccessDenied.Error())
	case domain.CodeNotFound:
		response.Error(c, http.StatusNotFound, code, err.Error())
	case domain.CodeInvalidContent:
		response.Error(c, http.StatusBadRequest, code, domain.ErrInvalidContent.Error())
	default:
		log := logger.Ctx(c.Request.Context())
		log.Error().Err(err).Msg("request failed")
		response.InternalError(c)
	}
}

func subjectIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("subject_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidSubjectID
	}
	return uint(id), nil
}
