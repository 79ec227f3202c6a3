package api

import (
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/service"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Items *service.ItemService
}

type statusRequest struct {
	Status model.Status `json:"status"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.Filter{
		Status:   model.Status(q.Get("status")),
		Category: model.Category(q.Get("category")),
		Text:     q.Get("q"),
	}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		f.Limit = limit
	}

	items, err := h.Items.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	view, err := h.Items.Get(r.Context(), GetActor(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, view)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft model.Draft
	if err := decodeJSON(r, &draft); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Items.Create(r.Context(), GetActor(r.Context()), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// UpdateStatus handles PUT /api/items/{id}/status.
func (h *ItemsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Items.TransitionStatus(r.Context(), GetActor(r.Context()), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	if err := h.Items.Delete(r.Context(), GetActor(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Dashboard handles GET /api/dashboard.
func (h *ItemsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.Dashboard(r.Context(), GetActor(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, items)
}

// AdminList handles GET /api/admin/items.
func (h *ItemsHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	items, err := h.Items.AdminList(r.Context(), GetActor(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeItems(w, items)
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return 0, false
	}
	return id, true
}

func writeItems(w http.ResponseWriter, items []model.Item) {
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}
