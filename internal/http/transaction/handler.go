package transaction

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/spendingtracker/internal/database"
	"github.com/MrJamesThe3rd/spendingtracker/internal/importer"
	"github.com/MrJamesThe3rd/spendingtracker/internal/receipt"
	"github.com/MrJamesThe3rd/spendingtracker/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc       *transaction.Service
	importSvc *importer.Service
	resizer   *receipt.Resizer
}

func NewHandler(svc *transaction.Service, importSvc *importer.Service, resizer *receipt.Resizer) *Handler {
	return &Handler{
		svc:       svc,
		importSvc: importSvc,
		resizer:   resizer,
	}
}

// Routes serves single transactions by id.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Get("/{id}/photo", h.photo)
	r.Delete("/{id}", h.delete)
}

// CardRoutes serves the transactions of the card in the {id} parameter.
func (h *Handler) CardRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

type createTransactionRequest struct {
	Name      string    `json:"name"`
	Amount    formText  `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Photo     []byte    `json:"photo,omitempty"`
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

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	cardID, ok := parseID(w, r)
	if !ok {
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadSize)).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	photo, err := h.resizer.Process(bytes.NewReader(req.Photo))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Create(r.Context(), cardID, transaction.CreateParams{
		Name:      req.Name,
		Amount:    string(req.Amount),
		Timestamp: req.Timestamp,
		PhotoData: photo,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cardID, ok := parseID(w, r)
	if !ok {
		return
	}

	txs, err := h.svc.List(r.Context(), cardID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toListResponse(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.load(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) photo(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.load(w, r)
	if !ok {
		return
	}

	if !tx.HasPhoto() {
		http.Error(w, "transaction has no photo", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")

	if _, err := w.Write(tx.PhotoData); err != nil {
		slog.Error("failed to write photo", "id", tx.ID, "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.load(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), tx); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Import adds every row of an uploaded CSV statement to the card in {id}.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	cardID, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	txs, err := h.importSvc.Import(r.Context(), cardID, file)
	if err != nil {
		if errors.Is(err, transaction.ErrCardRequired) || database.IsPersistence(err) {
			writeError(w, err)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	writeJSON(w, http.StatusCreated, importResponse{
		Imported:     len(txs),
		Transactions: toResponses(txs),
	})
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*transaction.Transaction, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return nil, false
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	return tx, true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}

	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrCardRequired):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		slog.Error("transaction request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
