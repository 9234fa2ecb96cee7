package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/text/language"

	"courtshare/internal/domain"
)

var langMatcher = language.NewMatcher([]language.Tag{language.English, language.Thai})

// Lang picks "en" or "th" from the Accept-Language header. English is the default.
func Lang(r *http.Request) string {
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No || idx != 1 {
		return "en"
	}
	return "th"
}

// WriteDomainError maps err onto the HTTP status and error code of its kind and writes it.
// Unexpected errors are logged and answered with 500.
func WriteDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	message := domain.Message(err, Lang(r))
	switch domain.KindOf(err) {
	case domain.KindUnauthenticated, domain.KindInvalidCredentials:
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
	case domain.KindForbidden:
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, message)
	case domain.KindValidation:
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			WriteFieldError(w, ve.Field, message)
			return
		}
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
	case domain.KindNotFound:
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, message)
	case domain.KindAlreadyJoined:
		WriteJSONError(w, http.StatusConflict, ErrCodeAlreadyJoined, message)
	case domain.KindEventFull:
		WriteJSONError(w, http.StatusConflict, ErrCodeEventFull, message)
	case domain.KindNotJoined:
		WriteJSONError(w, http.StatusConflict, ErrCodeNotJoined, message)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
	}
}
