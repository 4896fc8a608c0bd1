package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"mindboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// envelope is the shape of every response body.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Respond writes a success envelope.
func Respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, envelope{Success: true, Message: message, Data: data})
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, envelope{Success: false, Message: message, Data: nil})
}

// RenderError maps a service error to a status code and failure envelope.
// Storage faults are logged and hidden behind a generic message.
func RenderError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidState):
		fail(c, http.StatusBadRequest, msg(err))
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, msg(err))
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, msg(err))
	case errors.Is(err, services.ErrConflict):
		fail(c, http.StatusConflict, msg(err))
	default:
		logger.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		fail(c, http.StatusInternalServerError, "internal server error, please contact the administrator")
	}
}

// BindError reports a request body that failed binding validation.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			fail(c, http.StatusBadRequest, fmt.Sprintf("%s failed on the '%s=%s' rule", fe.Field(), fe.Tag(), fe.Param()))
			return
		}
		fail(c, http.StatusBadRequest, fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
		return
	}
	fail(c, http.StatusBadRequest, "malformed request body")
}

var registerOnce sync.Once

// RegisterValidation makes binding errors name fields by their JSON keys.
func RegisterValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

func msg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func isNotFound(err error) bool {
	return errors.Is(err, services.ErrNotFound)
}
