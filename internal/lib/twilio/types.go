package twilio

import "fmt"

// MessageResponse ответ Twilio на создание сообщения.
type MessageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}

// APIError ошибка, которую вернул Twilio.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twilio: status %d, code %d: %s", e.StatusCode, e.Code, e.Message)
}
