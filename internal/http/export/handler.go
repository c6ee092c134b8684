package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
	"github.com/MrJamesThe3rd/spendingtracker/internal/export"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

// Download streams the archive of the card in the {id} parameter.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	// Buffered so a failure can still be reported with a status code.
	var buf bytes.Buffer

	c, items, err := h.svc.Export(r.Context(), cardID, &buf)
	if err != nil {
		switch {
		case errors.Is(err, card.ErrNotFound):
			http.Error(w, "card not found", http.StatusNotFound)
		case database.IsPersistence(err):
			slog.Error("export store failure", "card_id", cardID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	slog.Debug("exported card", "card_id", cardID, "transactions", len(items))

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"%s\"", archiveName(c.Name, time.Now())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write archive", "card_id", cardID, "error", err)
	}
}

func archiveName(cardName string, now time.Time) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}

		return '_'
	}, cardName)

	return fmt.Sprintf("%s_%s.zip", safe, now.Format("20060102"))
}
