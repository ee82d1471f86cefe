package handlers

import (
	"errors"
	"net/http"

	"runway-agent/internal/api/models"
	"runway-agent/internal/model"
	"runway-agent/internal/store"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondErr maps data-entry errors to 400, missing records to 404 and
// anything else to 500 with fallbackCode.
func respondErr(c *gin.Context, err error, fallbackCode string) {
	_ = c.Error(err)
	if code := model.InputErrorCode(err); code != "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: inputErrorDetail(err)})
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	respondError(c, http.StatusInternalServerError, fallbackCode, err.Error())
}

func inputErrorDetail(err error) models.ErrorDetail {
	d := models.ErrorDetail{Code: model.InputErrorCode(err), Message: err.Error()}
	var ve *model.ValidationError
	var de *model.DateParseError
	switch {
	case errors.As(err, &ve):
		d.Details = map[string]interface{}{"field": ve.Field}
	case errors.As(err, &de):
		d.Details = map[string]interface{}{"field": de.Field, "value": de.Value}
	}
	return d
}

func invalidRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}
