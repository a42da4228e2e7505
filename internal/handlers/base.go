package handlers

import (
	"errors"
	"net/http"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path
	obj["Year"] = time.Now().Year()

	c.HTML(code, name, obj)
}

// RenderError renders the error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "core/error.html", gin.H{"Code": code, "Error": message})
}

// NotFound renders the 404 page. It doubles as the engine's NoRoute handler.
func NotFound(c *gin.Context) {
	RenderError(c, http.StatusNotFound, "Page not found")
}

// RenderAppError maps an error from the service layer to a page.
func RenderAppError(c *gin.Context, err error) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeNotFound:
			RenderError(c, http.StatusNotFound, appErr.Message)
			return
		case models.CodeUnauthorized:
			c.Redirect(http.StatusFound, middleware.LoginURL(c.Request.URL.RequestURI()))
			return
		case models.CodeValidation:
			RenderError(c, http.StatusBadRequest, appErr.Message)
			return
		}
	}

	_ = c.Error(err)
	log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	RenderError(c, http.StatusInternalServerError, "Internal server error")
}

// paramID parses a numeric path parameter, rendering 404 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, ok := utils.ParseID(c.Param(name))
	if !ok {
		NotFound(c)
	}
	return id, ok
}
