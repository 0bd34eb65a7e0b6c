package handlers

import (
	"encoding/json"
	"net/http"

	"hansik/models"
	"hansik/views"
)

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	models.EINVALID:  http.StatusBadRequest,
	models.ENOTFOUND: http.StatusNotFound,
	models.EINTERNAL: http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON body of a failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) logError(r *http.Request, err error) {
	if models.ErrorCode(err) != models.EINTERNAL {
		return
	}
	h.logger.ErrorContext(r.Context(), "request failed",
		"request_id", RequestID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"err", err,
	)
}

// writeJSON encodes v with the given status.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WarnContext(r.Context(), "failed to encode response", "err", err)
	}
}

// jsonError writes an API error. Only application messages reach the client.
func (h *Handler) jsonError(w http.ResponseWriter, r *http.Request, err error) {
	h.logError(r, err)
	h.writeJSON(w, r, ErrorStatusCode(models.ErrorCode(err)), &ErrorResponse{Error: models.ErrorMessage(err)})
}

// pageError renders an HTML error page.
func (h *Handler) pageError(w http.ResponseWriter, r *http.Request, err error) {
	h.logError(r, err)
	layout := h.layout(w, r)

	code := models.ErrorCode(err)
	if code == models.ENOTFOUND {
		h.render(w, r, h.views.NotFound(views.NotFoundData{Layout: layout}))
		return
	}
	msg := models.ErrorMessage(err)
	if code == models.EINVALID {
		msg = layout.L.T("error.bad_request") + ": " + msg
	}
	h.render(w, r, h.views.Error(ErrorStatusCode(code), views.ErrorData{Layout: layout, Message: msg}))
}

// NotFound renders the generic 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.views.NotFound(views.NotFoundData{Layout: h.layout(w, r)}))
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

func (h *Handler) apiNotFound(w http.ResponseWriter, r *http.Request) {
	h.jsonError(w, r, models.Errorf(models.ENOTFOUND, "no such endpoint"))
}

func (h *Handler) apiMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusMethodNotAllowed, &ErrorResponse{Error: "method not allowed"})
}
