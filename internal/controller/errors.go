package controller

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/davidmro/tutoring_core/internal/model"
)

// errorBody is the wire shape of every failed operation.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// HTTPErrorHandler maps the domain error taxonomy onto status codes and
// renders the structured error body. Internal causes are logged, never
// exposed.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := errorBody{Error: errorDetail{
			Kind:    string(model.KindInternal),
			Message: http.StatusText(http.StatusInternalServerError),
		}}

		var de *model.Error
		var ve validator.ValidationErrors
		var he *echo.HTTPError
		switch {
		case errors.As(err, &de):
			body.Error.Kind = string(de.Kind)
			body.Error.Message = de.Message
			body.Error.Field = de.Field
			switch de.Kind {
			case model.KindNotFound:
				code = http.StatusNotFound
			case model.KindConflict:
				code = http.StatusConflict
			case model.KindBadRequest:
				code = http.StatusBadRequest
			default:
				code = http.StatusInternalServerError
				logger.Error("Internal error", zap.Error(err), zap.String("path", c.Path()))
			}
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			body.Error.Kind = string(model.KindBadRequest)
			body.Error.Message = "validation failed"
			if len(ve) > 0 {
				body.Error.Field = ve[0].Field()
				body.Error.Message = ve[0].Error()
			}
		case errors.As(err, &he):
			code = he.Code
			body.Error.Kind = string(model.KindBadRequest)
			if code == http.StatusNotFound {
				body.Error.Kind = string(model.KindNotFound)
			}
			if msg, ok := he.Message.(string); ok {
				body.Error.Message = msg
			}
		default:
			logger.Error("Unhandled error", zap.Error(err), zap.String("path", c.Path()))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if err := c.JSON(code, body); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
	}
}
