package card

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/card"
	"github.com/MrJamesThe3rd/spendingtracker/internal/color"
	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
)

type Handler struct {
	svc *card.Service
}

func NewHandler(svc *card.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/", h.deleteAll)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// cardRequest mirrors the card form: limit is free text and coerced on save.
type cardRequest struct {
	Name     string    `json:"name"`
	Number   string    `json:"number"`
	Limit    formText  `json:"limit"`
	Type     card.Type `json:"type"`
	ExpMonth int       `json:"exp_month"`
	ExpYear  int       `json:"exp_year"`
	Color    string    `json:"color,omitempty"`
}

// formText accepts a JSON string or a bare JSON number and keeps its text,
// so numeric fields coerce the same way the forms do.
type formText string

func (t *formText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = formText(s)
		return nil
	}

	*t = formText(bytes.TrimSpace(b))

	return nil
}

func (req cardRequest) fields() (card.Fields, error) {
	f := card.Fields{
		Name:     req.Name,
		Number:   req.Number,
		Limit:    string(req.Limit),
		Type:     req.Type,
		ExpMonth: req.ExpMonth,
		ExpYear:  req.ExpYear,
	}

	if f.Type == "" {
		f.Type = card.TypeVisa
	}

	if req.Color != "" {
		c, err := color.Parse(req.Color)
		if err != nil {
			return card.Fields{}, err
		}

		f.Color = &c
	}

	return f, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cards, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toResponseList(cards))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(c))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	f, ok := decodeFields(w, r)
	if !ok {
		return
	}

	c, err := h.svc.CreateOrUpdate(r.Context(), nil, f)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.toResponse(c))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.load(w, r)
	if !ok {
		return
	}

	f, ok := decodeFields(w, r)
	if !ok {
		return
	}

	c, err := h.svc.CreateOrUpdate(r.Context(), existing, f)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*card.Card, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil, false
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	return c, true
}

func decodeFields(w http.ResponseWriter, r *http.Request) (card.Fields, bool) {
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return card.Fields{}, false
	}

	f, err := req.fields()
	if err != nil {
		http.Error(w, "invalid color: "+err.Error(), http.StatusBadRequest)
		return card.Fields{}, false
	}

	return f, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, card.ErrNotFound):
		http.Error(w, "card not found", http.StatusNotFound)
	case database.IsPersistence(err):
		slog.Error("card store failure", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
