package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"reqboard/application/commands"
	"reqboard/application/commands/bus"
	"reqboard/application/queries"
	"reqboard/pkg/common"
)

// CollabHandler serves comments, reviews, and the audit history
type CollabHandler struct {
	bus   *bus.CommandBus
	query *queries.CollabQueryService
}

// NewCollabHandler creates the collaboration HTTP handler
func NewCollabHandler(b *bus.CommandBus, query *queries.CollabQueryService) *CollabHandler {
	return &CollabHandler{bus: b, query: query}
}

// Routes mounts the handler's endpoints
func (h *CollabHandler) Routes(r chi.Router) {
	r.Get("/elements/{kind}/{id}/comments", h.listComments)
	r.Post("/elements/{kind}/{id}/comments", h.addComment)
	r.Post("/elements/{kind}/{id}/comments/{seq}/resolve", h.resolveComment)

	r.Get("/requirements/{id}/review", h.getReview)
	r.Post("/requirements/{id}/review", h.requestReview)
	r.Post("/requirements/{id}/review/approve", h.approveReview)
	r.Post("/requirements/{id}/review/reject", h.rejectReview)

	r.Get("/history", h.history)
	r.Get("/history/export", h.exportHistory)
}

func (h *CollabHandler) listComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	comments, err := h.query.CommentsFor(chi.URLParam(r, "kind"), id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, comments)
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *CollabHandler) addComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	kind := chi.URLParam(r, "kind")
	if err := h.bus.Send(r.Context(), commands.AddComment{TargetKind: kind, TargetID: id, Text: req.Text}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	comments, err := h.query.CommentsFor(kind, id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, comments)
}

func (h *CollabHandler) resolveComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	seq, err := pathID(r, "seq")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	kind := chi.URLParam(r, "kind")
	if err := h.bus.Send(r.Context(), commands.ResolveComment{TargetKind: kind, TargetID: id, Seq: seq}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	comments, err := h.query.CommentsFor(kind, id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, comments)
}

func (h *CollabHandler) getReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	review, err := h.query.ReviewFor(id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, review)
}

type reviewRequest struct {
	Reviewers    []string `json:"reviewers" validate:"required,min=1,dive,required"`
	Notes        string   `json:"notes"`
	DeadlineDays int      `json:"deadline_days" validate:"min=0"`
}

func (h *CollabHandler) requestReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req reviewRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := h.bus.Send(r.Context(), commands.RequestReview{RequirementID: id, Reviewers: req.Reviewers, Notes: req.Notes, DeadlineDays: req.DeadlineDays}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	review, err := h.query.ReviewFor(id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, review)
}

func (h *CollabHandler) approveReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := h.bus.Send(r.Context(), commands.ApproveReview{RequirementID: id}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	review, err := h.query.ReviewFor(id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, review)
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *CollabHandler) rejectReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req rejectRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	if err := h.bus.Send(r.Context(), commands.RejectReview{RequirementID: id, Reason: req.Reason}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	review, err := h.query.ReviewFor(id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, review)
}

func (h *CollabHandler) history(w http.ResponseWriter, r *http.Request) {
	entries, err := h.query.History(r.URL.Query().Get("action"), r.URL.Query().Get("user"))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, entries)
}

func (h *CollabHandler) exportHistory(w http.ResponseWriter, r *http.Request) {
	data, err := h.query.ExportHistoryCSV()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="history.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
