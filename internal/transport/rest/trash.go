package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/heartmarshall/caseflow-backend/internal/domain"
	"github.com/heartmarshall/caseflow-backend/internal/service/trash"
)

// trashService defines the trash lifecycle operations exposed over HTTP.
type trashService interface {
	SoftDelete(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (*domain.Entity, error)
	Restore(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (*domain.Entity, error)
	PurgeOne(ctx context.Context, kind domain.EntityKind, id uuid.UUID) (*trash.PurgeResult, error)
	EmptyTrash(ctx context.Context) (*trash.EmptyResult, error)
	ListTrash(ctx context.Context, kind *domain.EntityKind, limit, offset int) (*trash.Page, error)
}

// TrashHandler serves the trash REST endpoints.
type TrashHandler struct {
	svc trashService
	log *slog.Logger
}

// NewTrashHandler creates a TrashHandler.
func NewTrashHandler(svc trashService, logger *slog.Logger) *TrashHandler {
	return &TrashHandler{svc: svc, log: logger.With("handler", "trash")}
}

type entityResponse struct {
	ID        string     `json:"id"`
	Kind      string     `json:"entityType"`
	Status    string     `json:"status,omitempty"`
	DeletedAt *time.Time `json:"deletedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type entityEnvelope struct {
	Success bool           `json:"success"`
	Entity  entityResponse `json:"entity"`
}

type purgeResponse struct {
	Success bool             `json:"success"`
	Deleted map[string]int64 `json:"deleted"`
}

type emptyResponse struct {
	Success bool             `json:"success"`
	Deleted map[string]int64 `json:"deleted"`
	Purged  map[string]int   `json:"purged"`
}

type emptyFailureResponse struct {
	errorResponse
	Deleted     map[string]int64 `json:"deleted"`
	FailedKinds []string         `json:"failedKinds"`
}

type listResponse struct {
	Items  []entityResponse `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// restoreRequest is the body form of restore used by the web client.
type restoreRequest struct {
	EntityType string `json:"entityType"`
	ID         string `json:"id"`
}

func (r restoreRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EntityType, validation.Required),
		validation.Field(&r.ID, validation.Required, is.UUID),
	)
}

// fieldErrors converts ozzo field errors into a domain.ValidationError with
// fields in name order.
func fieldErrors(err error) error {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for f := range verrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]domain.FieldError, 0, len(fields))
	for _, f := range fields {
		out = append(out, domain.FieldError{Field: f, Message: verrs[f].Error()})
	}
	return domain.NewValidationErrors(out)
}

// SoftDelete handles POST /api/trash/{kind}/{id}.
func (h *TrashHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	kind, id, err := pathTarget(r)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	ent, err := h.svc.SoftDelete(r.Context(), kind, id)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, entityEnvelope{Success: true, Entity: toEntityResponse(*ent)})
}

// Restore handles POST /api/trash/{kind}/{id}/restore.
func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	kind, id, err := pathTarget(r)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	h.restore(w, r, kind, id)
}

// RestoreBody handles POST /api/trash/restore {"entityType": "...", "id": "..."}.
func (h *TrashHandler) RestoreBody(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidation, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeDomainError(w, r, h.log, fieldErrors(err))
		return
	}

	kind, err := domain.ParseEntityKind(req.EntityType)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	h.restore(w, r, kind, uuid.MustParse(req.ID))
}

func (h *TrashHandler) restore(w http.ResponseWriter, r *http.Request, kind domain.EntityKind, id uuid.UUID) {
	ent, err := h.svc.Restore(r.Context(), kind, id)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, entityEnvelope{Success: true, Entity: toEntityResponse(*ent)})
}

// Purge handles DELETE /api/trash/{kind}/{id}.
func (h *TrashHandler) Purge(w http.ResponseWriter, r *http.Request) {
	kind, id, err := pathTarget(r)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	res, err := h.svc.PurgeOne(r.Context(), kind, id)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, purgeResponse{Success: true, Deleted: tableCounts(res.Deleted)})
}

// Empty handles DELETE /api/trash.
func (h *TrashHandler) Empty(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.EmptyTrash(r.Context())

	var partial *trash.PartialFailureError
	if errors.As(err, &partial) {
		h.log.ErrorContext(r.Context(), "empty trash partially failed", slog.String("error", err.Error()))

		failed := make([]string, len(partial.Failed))
		for i, f := range partial.Failed {
			failed[i] = string(f.Kind)
		}
		sort.Strings(failed)

		deleted := map[string]int64{}
		if partial.Result != nil {
			deleted = tableCounts(partial.Result.Deleted)
		}
		writeJSON(w, http.StatusInternalServerError, emptyFailureResponse{
			errorResponse: errorResponse{Error: errorDetail{
				Code:    CodeServerError,
				Message: "some kinds could not be purged; committed kinds stay purged",
			}},
			Deleted:     deleted,
			FailedKinds: failed,
		})
		return
	}
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	purged := make(map[string]int, len(res.Purged))
	for kind, n := range res.Purged {
		purged[string(kind)] = n
	}
	writeJSON(w, http.StatusOK, emptyResponse{Success: true, Deleted: tableCounts(res.Deleted), Purged: purged})
}

// List handles GET /api/trash?kind=&limit=&offset=.
func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var kind *domain.EntityKind
	if v := q.Get("kind"); v != "" {
		k, err := domain.ParseEntityKind(v)
		if err != nil {
			writeDomainError(w, r, h.log, err)
			return
		}
		kind = &k
	}

	limit, err := intParam(q.Get("limit"), "limit")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}
	offset, err := intParam(q.Get("offset"), "offset")
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	page, err := h.svc.ListTrash(r.Context(), kind, limit, offset)
	if err != nil {
		writeDomainError(w, r, h.log, err)
		return
	}

	resp := listResponse{
		Items:  make([]entityResponse, len(page.Items)),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	for i, e := range page.Items {
		resp.Items[i] = toEntityResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// pathTarget reads {kind} and {id} from the route.
func pathTarget(r *http.Request) (domain.EntityKind, uuid.UUID, error) {
	kind, err := domain.ParseEntityKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", uuid.Nil, err
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return "", uuid.Nil, domain.NewValidationError("id", "must be a UUID")
	}
	return kind, id, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

func tableCounts(deleted map[domain.Table]int64) map[string]int64 {
	out := make(map[string]int64, len(deleted))
	for table, n := range deleted {
		out[string(table)] = n
	}
	return out
}

func toEntityResponse(e domain.Entity) entityResponse {
	return entityResponse{
		ID:        e.ID.String(),
		Kind:      string(e.Kind),
		Status:    e.Status,
		DeletedAt: e.DeletedAt,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
