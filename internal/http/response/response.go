// Package response формирует JSON-конверт ответов API: {status, error, data}.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Значения поля status.
const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// Response конверт ответа. Error заполняется при неуспехе, Data при успехе.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// StatusOKWithData успешный ответ с данными.
func StatusOKWithData(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Error ответ с ошибкой.
func Error(msg string) Response {
	return Response{Status: StatusError, Error: msg}
}

// ValidationError собирает нарушения валидации в одно сообщение.
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		if err.ActualTag() == "notfuture" {
			msgs = append(msgs, fmt.Sprintf("field %s must not be in the future", err.Field()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("field %s is invalid", err.Field()))
	}
	return Error(strings.Join(msgs, ", "))
}
