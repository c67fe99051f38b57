package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"reqboard/application/commands"
	"reqboard/application/commands/bus"
	"reqboard/application/queries"
	"reqboard/pkg/common"
)

// LayerHandler serves the layer registry endpoints
type LayerHandler struct {
	bus   *bus.CommandBus
	query *queries.BoardQueryService
}

// NewLayerHandler creates the layer HTTP handler
func NewLayerHandler(b *bus.CommandBus, query *queries.BoardQueryService) *LayerHandler {
	return &LayerHandler{bus: b, query: query}
}

// Routes mounts the handler's endpoints
func (h *LayerHandler) Routes(r chi.Router) {
	r.Get("/layers", h.listLayers)
	r.Post("/layers", h.createLayer)
	r.Delete("/layers/{name}", h.deleteLayer)
	r.Put("/layers/{name}/visible", h.setVisible)
	r.Put("/layers/{name}/locked", h.setLocked)
	r.Put("/layers/active", h.setActive)
}

func (h *LayerHandler) listLayers(w http.ResponseWriter, r *http.Request) {
	view, err := h.query.View()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"layers":       view.Layers,
		"active_layer": view.ActiveLayer,
	})
}

type createLayerRequest struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color"`
}

func (h *LayerHandler) createLayer(w http.ResponseWriter, r *http.Request) {
	var req createLayerRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.CreateLayer{Name: req.Name, Color: req.Color}, http.StatusCreated)
}

func (h *LayerHandler) deleteLayer(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteLayer{
		Name:       chi.URLParam(r, "name"),
		Confirm:    queryBool(r, "confirm"),
		ReassignTo: r.URL.Query().Get("reassign_to"),
	}, http.StatusOK)
}

type visibleRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

func (h *LayerHandler) setVisible(w http.ResponseWriter, r *http.Request) {
	var req visibleRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SetLayerVisible{Name: chi.URLParam(r, "name"), Visible: *req.Visible}, http.StatusOK)
}

type lockedRequest struct {
	Locked *bool `json:"locked" validate:"required"`
}

func (h *LayerHandler) setLocked(w http.ResponseWriter, r *http.Request) {
	var req lockedRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SetLayerLocked{Name: chi.URLParam(r, "name"), Locked: *req.Locked}, http.StatusOK)
}

type activeLayerRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *LayerHandler) setActive(w http.ResponseWriter, r *http.Request) {
	var req activeLayerRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SetActiveLayer{Name: req.Name}, http.StatusOK)
}

func (h *LayerHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command, status int) {
	if err := h.bus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	view, err := h.query.View()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, status, map[string]interface{}{
		"layers":       view.Layers,
		"active_layer": view.ActiveLayer,
	})
}
