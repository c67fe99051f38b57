package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"reqboard/application/commands"
	"reqboard/application/commands/bus"
	"reqboard/application/queries"
	"reqboard/pkg/common"
)

// BoardHandler serves the board snapshot and all element endpoints
type BoardHandler struct {
	bus   *bus.CommandBus
	query *queries.BoardQueryService
}

// NewBoardHandler creates the board HTTP handler
func NewBoardHandler(b *bus.CommandBus, query *queries.BoardQueryService) *BoardHandler {
	return &BoardHandler{bus: b, query: query}
}

// Routes mounts the handler's endpoints
func (h *BoardHandler) Routes(r chi.Router) {
	r.Get("/board", h.getBoard)

	r.Post("/requirements", h.createRequirement)
	r.Put("/requirements/{id}/title", h.updateTitle)
	r.Put("/requirements/{id}/note", h.updateNote)
	r.Put("/requirements/{id}/status", h.changeStatus)

	r.Post("/groups", h.createGroup)
	r.Put("/groups/{id}/name", h.setGroupName)

	r.Post("/textboxes", h.createTextBox)
	r.Put("/textboxes/{id}/content", h.setTextContent)
	r.Put("/textboxes/{id}/font", h.setFontSize)

	r.Post("/links", h.linkChild)

	r.Put("/elements/{kind}/{id}/position", h.moveElement)
	r.Put("/elements/{kind}/{id}/size", h.resizeElement)
	r.Put("/elements/{kind}/{id}/layer", h.setElementLayer)
	r.Put("/elements/{kind}/{id}/color", h.setColor)
	r.Delete("/elements/{kind}/{id}", h.deleteElement)

	r.Post("/selection", h.selectElement)
	r.Delete("/selection/{kind}/{id}", h.deselectElement)
	r.Delete("/selection", h.clearSelection)
}

func (h *BoardHandler) getBoard(w http.ResponseWriter, r *http.Request) {
	view, err := h.query.View()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

type createRequirementRequest struct {
	Kind string  `json:"kind" validate:"required,oneof=parent child"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (h *BoardHandler) createRequirement(w http.ResponseWriter, r *http.Request) {
	var req createRequirementRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.CreateRequirement{Kind: req.Kind, X: req.X, Y: req.Y}, http.StatusCreated)
}

type positionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (h *BoardHandler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.CreateGroup{X: req.X, Y: req.Y}, http.StatusCreated)
}

func (h *BoardHandler) createTextBox(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.CreateTextBox{X: req.X, Y: req.Y}, http.StatusCreated)
}

type linkRequest struct {
	ParentID int `json:"parent_id" validate:"required,min=1"`
	ChildID  int `json:"child_id" validate:"required,min=1"`
}

func (h *BoardHandler) linkChild(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.LinkChild{ParentID: req.ParentID, ChildID: req.ChildID}, http.StatusOK)
}

func (h *BoardHandler) moveElement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req positionRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.MoveElement{TargetKind: chi.URLParam(r, "kind"), TargetID: id, X: req.X, Y: req.Y}, http.StatusOK)
}

type sizeRequest struct {
	Width  float64 `json:"width" validate:"required,gt=0"`
	Height float64 `json:"height" validate:"required,gt=0"`
}

func (h *BoardHandler) resizeElement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req sizeRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.ResizeElement{TargetKind: chi.URLParam(r, "kind"), TargetID: id, Width: req.Width, Height: req.Height}, http.StatusOK)
}

type layerAssignRequest struct {
	Layer string `json:"layer" validate:"required"`
}

func (h *BoardHandler) setElementLayer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req layerAssignRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SetElementLayer{TargetKind: chi.URLParam(r, "kind"), TargetID: id, Layer: req.Layer}, http.StatusOK)
}

type colorRequest struct {
	Color string `json:"color" validate:"required"`
}

func (h *BoardHandler) setColor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req colorRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SetColor{TargetKind: chi.URLParam(r, "kind"), TargetID: id, Color: req.Color}, http.StatusOK)
}

func (h *BoardHandler) deleteElement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.DeleteElement{TargetKind: chi.URLParam(r, "kind"), TargetID: id}, http.StatusOK)
}

type titleRequest struct {
	Title string `json:"title" validate:"required"`
}

func (h *BoardHandler) updateTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req titleRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.UpdateTitle{RequirementID: id, Title: req.Title}, http.StatusOK)
}

type noteRequest struct {
	Note string `json:"note"`
}

func (h *BoardHandler) updateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req noteRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.UpdateNote{RequirementID: id, Note: req.Note}, http.StatusOK)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *BoardHandler) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.ChangeStatus{RequirementID: id, Status: req.Status}, http.StatusOK)
}

type textContentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *BoardHandler) setTextContent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req textContentRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SetTextContent{TextBoxID: id, Content: req.Content}, http.StatusOK)
}

type fontSizeRequest struct {
	FontSize int `json:"font_size" validate:"required,min=1"`
}

func (h *BoardHandler) setFontSize(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req fontSizeRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SetFontSize{TextBoxID: id, FontSize: req.FontSize}, http.StatusOK)
}

type groupNameRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *BoardHandler) setGroupName(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	var req groupNameRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SetGroupName{GroupID: id, Name: req.Name}, http.StatusOK)
}

type selectRequest struct {
	Kind string `json:"kind" validate:"required,oneof=requirement group text"`
	ID   int    `json:"id" validate:"required,min=1"`
}

func (h *BoardHandler) selectElement(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeBody(r, &req); err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.SelectElement{TargetKind: req.Kind, TargetID: req.ID}, http.StatusOK)
}

func (h *BoardHandler) deselectElement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	h.send(w, r, commands.DeselectElement{TargetKind: chi.URLParam(r, "kind"), TargetID: id}, http.StatusOK)
}

func (h *BoardHandler) clearSelection(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ClearSelection{}, http.StatusOK)
}

// send dispatches a command and responds with the refreshed board view
func (h *BoardHandler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command, status int) {
	if err := h.bus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	view, err := h.query.View()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, status, view)
}
