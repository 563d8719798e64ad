// Package response содержит JSON-конверты ответов API: {"status":"OK","data":...}
// и {"status":"Error","error":"..."}.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response конверт ответа. Data заполняется при успехе, Error при ошибке.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse конверт ошибки, отдельный тип нужен для аннотаций @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// Значения поля status.
const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// StatusOKWithData успешный ответ с данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error ответ с текстом ошибки.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// validationMessages шаблоны по тегу validator: поле, затем параметр тега.
var validationMessages = map[string]string{
	"required": "field %s is a required field",
	"email":    "field %s must be a valid email",
	"min":      "field %s must be at least %s characters",
	"max":      "field %s must be at most %s characters",
	"gte":      "field %s must be greater than or equal to %s",
	"oneof":    "field %s must be one of [%s]",
}

// ValidationError собирает нарушения валидации в одну строку через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		tmpl, ok := validationMessages[err.ActualTag()]
		switch {
		case !ok:
			msgs = append(msgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		case strings.Count(tmpl, "%s") == 1:
			msgs = append(msgs, fmt.Sprintf(tmpl, err.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf(tmpl, err.Field(), err.Param()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(msgs, ", "),
	}
}
