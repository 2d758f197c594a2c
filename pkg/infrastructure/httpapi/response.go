package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mateusmacedo/go-railway/pkg/application"
	"github.com/mateusmacedo/go-railway/pkg/domain"
)

// ErrorBody é o corpo JSON de toda resposta de erro.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Classifier traduz erros específicos de um slice para status e código.
// Devolve ok=false quando não reconhece o erro.
type Classifier func(err error) (status int, code string, ok bool)

// Responder escreve respostas JSON e mapeia erros de domínio para HTTP.
type Responder struct {
	logger      application.AppLogger
	classifiers []Classifier
}

func NewResponder(logger application.AppLogger, classifiers ...Classifier) *Responder {
	return &Responder{logger: logger, classifiers: classifiers}
}

func (rs *Responder) JSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		application.LogError(r.Context(), rs.logger, "error encoding response", err, map[string]interface{}{
			"path": r.URL.Path,
		})
	}
}

func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status, code := rs.classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		application.LogError(r.Context(), rs.logger, "request failed", err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		message = "internal server error"
	}
	rs.JSON(w, r, status, ErrorBody{Error: code, Message: message})
}

// BadRequest responde a corpos que não puderam ser decodificados.
func (rs *Responder) BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	rs.JSON(w, r, http.StatusBadRequest, ErrorBody{Error: "bad_request", Message: message})
}

func (rs *Responder) classify(err error) (int, string) {
	for _, classifier := range rs.classifiers {
		if status, code, ok := classifier(err); ok {
			return status, code
		}
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// DecodeJSON decodifica o corpo rejeitando campos desconhecidos.
func DecodeJSON(r *http.Request, target interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
