package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"reqboard/application/commands"
	"reqboard/application/commands/bus"
	"reqboard/application/queries"
	"reqboard/pkg/common"
	"reqboard/pkg/export"
	pkgerrors "reqboard/pkg/errors"
)

// WorkspaceHandler serves viewport, identity, interaction, project, and
// export-layout endpoints.
type WorkspaceHandler struct {
	bus    *bus.CommandBus
	query  *queries.BoardQueryService
	layout *queries.ExportQueryService
}

// NewWorkspaceHandler creates the workspace HTTP handler
func NewWorkspaceHandler(b *bus.CommandBus, query *queries.BoardQueryService, layout *queries.ExportQueryService) *WorkspaceHandler {
	return &WorkspaceHandler{bus: b, query: query, layout: layout}
}

// Routes mounts the handler's endpoints
func (h *WorkspaceHandler) Routes(r chi.Router) {
	r.Post("/viewport/zoom", h.zoom)
	r.Post("/viewport/pan", h.pan)
	r.Post("/viewport/reset", h.resetZoom)

	r.Put("/user", h.setUser)
	r.Put("/prefix", h.setPrefix)
	r.Post("/resequence", h.resequence)

	r.Post("/interaction/drag", h.beginDrag)
	r.Post("/interaction/resize", h.beginResize)
	r.Post("/interaction/pan", h.beginPan)
	r.Delete("/interaction", h.endInteraction)

	r.Post("/project/save", h.saveProject)
	r.Post("/project/load", h.loadProject)

	r.Get("/export/layout", h.exportLayout)
}

type zoomRequest struct {
	AnchorX float64 `json:"anchor_x"`
	AnchorY float64 `json:"anchor_y"`
	Factor  float64 `json:"factor" validate:"required,gt=0"`
}

func (h *WorkspaceHandler) zoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.ZoomAt{AnchorX: req.AnchorX, AnchorY: req.AnchorY, Factor: req.Factor})
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (h *WorkspaceHandler) pan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.Pan{DX: req.DX, DY: req.DY})
}

func (h *WorkspaceHandler) resetZoom(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ResetZoom{})
}

type userRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *WorkspaceHandler) setUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SetCurrentUser{Name: req.Name})
}

type prefixRequest struct {
	Prefix string `json:"prefix"`
}

func (h *WorkspaceHandler) setPrefix(w http.ResponseWriter, r *http.Request) {
	var req prefixRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SetIDPrefix{Prefix: req.Prefix})
}

func (h *WorkspaceHandler) resequence(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.Resequence{})
}

type interactionRequest struct {
	Kind string `json:"kind" validate:"required,oneof=requirement group text"`
	ID   int    `json:"id" validate:"required,min=1"`
}

func (h *WorkspaceHandler) beginDrag(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.BeginDrag{TargetKind: req.Kind, TargetID: req.ID})
}

func (h *WorkspaceHandler) beginResize(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.BeginResize{TargetKind: req.Kind, TargetID: req.ID})
}

func (h *WorkspaceHandler) beginPan(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.BeginPan{})
}

func (h *WorkspaceHandler) endInteraction(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.EndInteraction{})
}

func (h *WorkspaceHandler) saveProject(w http.ResponseWriter, r *http.Request) {
	if err := h.bus.Send(r.Context(), commands.SaveProject{}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (h *WorkspaceHandler) loadProject(w http.ResponseWriter, r *http.Request) {
	if err := h.bus.Send(r.Context(), commands.LoadProject{}); err != nil {
		common.RespondAppError(w, err)
		return
	}
	view, err := h.query.View()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

func (h *WorkspaceHandler) exportLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var layers []string
	if raw := q.Get("layers"); raw != "" {
		layers = strings.Split(raw, ",")
	}

	opts := export.Options{
		Page:      q.Get("page"),
		Landscape: queryBool(r, "landscape"),
		Scale:     1.0,
		Margin:    20,
	}
	if opts.Page == "" {
		opts.Page = "a4"
	}
	if raw := q.Get("scale"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			common.RespondAppError(w, pkgerrors.NewValidationError("scale must be a number"))
			return
		}
		opts.Scale = v
	}
	if raw := q.Get("margin"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			common.RespondAppError(w, pkgerrors.NewValidationError("margin must be a number"))
			return
		}
		opts.Margin = v
	}

	layout, err := h.layout.Layout(layers, opts)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, layout)
}

// send dispatches a command and responds with the refreshed board view
func (h *WorkspaceHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command) {
	if err := h.bus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	view, err := h.query.View()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}
