package list_submissions

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-BookingForm/internal/api/handlers"
	"github.com/m04kA/SMC-BookingForm/internal/api/middleware"
	"github.com/m04kA/SMC-BookingForm/internal/domain"
)

const (
	defaultLimit    = 20
	msgInvalidLimit = "parâmetro limit inválido"
)

type Handler struct {
	journal SubmissionJournal
	logger  Logger
}

func NewHandler(journal SubmissionJournal, logger Logger) *Handler {
	return &Handler{
		journal: journal,
		logger:  logger,
	}
}

// Handle GET /api/v1/submissions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handlers.RespondSessionExpired(w)
		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > domain.MaxSubmissionsListLimit {
			h.logger.Warn("GET /submissions - Invalid limit: %s", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	subject := sess.Claims().Subject
	items, err := h.journal.ListByUser(r.Context(), subject, limit)
	if err != nil {
		h.logger.Error("GET /submissions - Failed to list submissions: subject=%s, error=%v", subject, err)
		handlers.RespondInternalError(w)
		return
	}

	response := make([]SubmissionResponse, 0, len(items))
	for _, item := range items {
		response = append(response, FromDomain(item))
	}

	h.logger.Info("GET /submissions - Submissions listed: subject=%s, count=%d", subject, len(response))
	handlers.RespondJSON(w, http.StatusOK, response)
}
