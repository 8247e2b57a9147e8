package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vnkhanh/kids-story-backend/pkg/errors"
)

func respondError(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"error": errorMessage(err)})
}

func statusOf(err error) int {
	return apperrors.HTTPStatus(err)
}

// errorMessage hides the cause of errors that carry no user facing message
func errorMessage(err error) string {
	if apperrors.HTTPStatus(err) == http.StatusInternalServerError && apperrors.GetCode(err) == "" {
		return "Internal server error"
	}
	return apperrors.GetMessage(err)
}
