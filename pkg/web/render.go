package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/genesisgates/genesis/pkg/proto"
	"github.com/genesisgates/genesis/pkg/tree"
)

// maxBodyBytes caps the size of JSON request bodies.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every failed API call.
type errorResponse struct {
	Error string `json:"error"`
}

// ErrBadRequest is returned when a request body cannot be decoded.
var ErrBadRequest = errors.New("bad request")

func renderStatus(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
		io.WriteString(w, fmt.Sprintf("%d %s", code, http.StatusText(code))) //nolint:errcheck,gosec
	}
}

// renderJSON renders a JSON response with the given status code and value.
func renderJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("error encoding json", "err", err)
	}
}

func renderNotFound(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusNotFound, errorResponse{Error: http.StatusText(http.StatusNotFound)})
}

func renderMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: http.StatusText(http.StatusMethodNotAllowed)})
}

// renderError maps err to a status code. Messages of unexpected errors are
// not sent to the client.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusCode(err, proto.UserFromContext(r.Context()) != nil)
	msg := err.Error()
	switch {
	case code == http.StatusUnauthorized && errors.Is(err, proto.ErrUnauthorized):
		msg = "authentication required"
	case code == http.StatusInternalServerError:
		log.FromContext(r.Context()).Error("request failed", "err", err)
		msg = http.StatusText(code)
	}

	renderJSON(w, code, errorResponse{Error: msg})
}

func statusCode(err error, authenticated bool) int {
	switch {
	case errors.Is(err, proto.ErrTreeNotFound),
		errors.Is(err, proto.ErrPersonNotFound),
		errors.Is(err, proto.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, proto.ErrUnauthorized):
		if authenticated {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case errors.Is(err, proto.ErrInvalidCode),
		errors.Is(err, proto.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, proto.ErrTreeLimit),
		errors.Is(err, tree.ErrCycle):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrBadRequest), proto.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, proto.ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s", ErrBadRequest, err)
	}
	return nil
}
