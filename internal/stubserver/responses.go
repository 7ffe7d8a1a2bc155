package stubserver

import (
	"encoding/json"
	"io"
	"net/http"

	pkgerrors "github.com/aritzhuerta/storefront-cart/pkg/errors"
)

// errorResponse is the wire error shape: clients read the top-level message.
type errorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *Server) writeSuccess(w http.ResponseWriter, r *http.Request, data any) {
	s.writeJSON(w, r, http.StatusOK, data)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	message := typed.Message()
	if message == "" {
		message = meta.PublicMessage
	}

	if s.logg != nil {
		ctx := s.logg.WithFields(r.Context(), map[string]any{
			"status": meta.HTTPStatus,
			"path":   r.URL.Path,
		})
		s.logg.Warn(ctx, "request rejected: "+message)
	}

	s.writeJSON(w, r, meta.HTTPStatus, errorResponse{
		Code:    string(typed.Code()),
		Message: message,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && s.logg != nil {
		s.logg.Error(r.Context(), "failed to encode response", err)
	}
}

func decodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	return nil
}
