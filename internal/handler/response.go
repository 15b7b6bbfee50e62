package handler

import (
	"net/http"
	"strings"
)

// Response is the JSON body returned to the invitation page
type Response struct {
	Message       string   `json:"message,omitempty"`
	MessageID     string   `json:"messageId,omitempty"`
	Error         string   `json:"error,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
}

// Response maps the result to an HTTP status and body.
// Notification failures are not visible here.
func (r Result) Response() (int, Response) {
	switch r.State {
	case StateCompleted:
		return http.StatusOK, Response{Message: r.Message, MessageID: r.DeliveryID}
	case StateRejectedInvalid:
		return http.StatusBadRequest, Response{
			Error:         "必須項目が不足しています: " + strings.Join(r.MissingFields, ", "),
			MissingFields: r.MissingFields,
		}
	case StateRejectedStoreFailure:
		return http.StatusInternalServerError, Response{Error: "回答の保存に失敗しました: " + r.Cause}
	default:
		return http.StatusInternalServerError, Response{Error: r.Cause}
	}
}
