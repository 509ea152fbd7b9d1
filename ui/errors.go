package ui

import (
	"net/http"

	apperrors "churnscope/internal/errors"
	"churnscope/ui/middleware"
	"churnscope/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError answers a JSON request with the error's code and mapped status
func (s *Server) respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Warn("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error":      errorBody{Code: apperrors.GetCode(err), Message: err.Error()},
		"request_id": middleware.GetRequestID(c),
	})
}

type errorPage struct {
	Title     string
	Code      string
	Message   string
	State     string
	RequestID string
}

// renderErrorPage shows err in place of the dashboard
func (s *Server) renderErrorPage(c *gin.Context, err error) {
	s.renderTemplate(c, apperrors.HTTPStatus(err), fragments.ErrorPage, errorPage{
		Title:     "Customer Churn Dashboard",
		Code:      apperrors.GetCode(err),
		Message:   err.Error(),
		State:     s.store.State().String(),
		RequestID: middleware.GetRequestID(c),
	})
}
