package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/wahlware/wahlhost/internal/logging"
	"github.com/wahlware/wahlhost/pkg/types"
)

type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// NewError writes the tagged error envelope. Internal errors are logged with
// their cause but surface a generic message.
func NewError(w http.ResponseWriter, r *http.Request, appErr *types.AppError) {
	logger := logging.FromContext(r.Context()).Sugar()
	logger.Errorw("request failed", "code", appErr.Code, "error", appErr.Error())

	message := appErr.Error()
	if appErr.Code == types.CodeInternal {
		message = "internal server error"
	}
	JSON(w, appErr.HTTPStatus(), HTTPError{
		Code:    string(appErr.Code),
		Message: message,
	})
}

// Decode parses a JSON request body into in.
func Decode(r *http.Request, in any) *types.AppError {
	if err := json.NewDecoder(r.Body).Decode(in); err != nil {
		return types.NewAppErrorf(types.CodeInputType, "malformed request body: %s", err)
	}
	return nil
}
