package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/checklist-api/internal/application"
	"github.com/oksasatya/checklist-api/internal/domain/entity"
	repo "github.com/oksasatya/checklist-api/internal/domain/repository"
	"github.com/oksasatya/checklist-api/internal/interface/middleware"
	"github.com/oksasatya/checklist-api/pkg/response"
	"github.com/oksasatya/checklist-api/pkg/validation"
)

type ChecklistHandler struct {
	Svc    *app.ChecklistService
	Logger *logrus.Logger
}

func NewChecklistHandler(svc *app.ChecklistService, logger *logrus.Logger) *ChecklistHandler {
	return &ChecklistHandler{Svc: svc, Logger: logger}
}

type itemCreateRequest struct {
	Description  string     `json:"description" binding:"required,max=1000"`
	Priority     string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate      *time.Time `json:"due_date"`
	DisplayOrder int        `json:"display_order" binding:"omitempty,gte=0"`
}

type checklistCreateRequest struct {
	Title       string              `json:"title" binding:"required,max=255"`
	Description *string             `json:"description" binding:"omitempty,max=2000"`
	Items       []itemCreateRequest `json:"items" binding:"omitempty,max=50,dive"`
}

type checklistUpdateRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

type itemUpdateRequest struct {
	Description  *string    `json:"description" binding:"omitempty,max=1000"`
	IsCompleted  *bool      `json:"is_completed"`
	Priority     *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate      *time.Time `json:"due_date"`
	DisplayOrder *int       `json:"display_order" binding:"omitempty,gte=0"`
}

type itemResponse struct {
	ID           string     `json:"id"`
	ChecklistID  string     `json:"checklist_id"`
	Description  string     `json:"description"`
	IsCompleted  bool       `json:"is_completed"`
	Priority     string     `json:"priority"`
	DueDate      *time.Time `json:"due_date"`
	DisplayOrder int        `json:"display_order"`
	IsOverdue    bool       `json:"is_overdue"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type checklistResponse struct {
	ID                   string         `json:"id"`
	Title                string         `json:"title"`
	Description          *string        `json:"description"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	Items                []itemResponse `json:"items"`
	TotalItems           int            `json:"total_items"`
	CompletedItems       int            `json:"completed_items"`
	CompletionPercentage float64        `json:"completion_percentage"`
}

func toItemResponse(it *entity.ChecklistItem, now time.Time) itemResponse {
	return itemResponse{
		ID:           it.ID,
		ChecklistID:  it.ChecklistID,
		Description:  it.Description,
		IsCompleted:  it.IsCompleted,
		Priority:     string(it.Priority),
		DueDate:      it.DueDate,
		DisplayOrder: it.DisplayOrder,
		IsOverdue:    it.Overdue(now),
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}

func toChecklistResponse(c *entity.Checklist) checklistResponse {
	now := time.Now()
	items := make([]itemResponse, len(c.Items))
	for i := range c.Items {
		items[i] = toItemResponse(&c.Items[i], now)
	}
	return checklistResponse{
		ID:                   c.ID,
		Title:                c.Title,
		Description:          c.Description,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
		Items:                items,
		TotalItems:           entity.TotalItems(c.Items),
		CompletedItems:       entity.CompletedItems(c.Items),
		CompletionPercentage: entity.CompletionPercentage(c.Items),
	}
}

// pathID validates a :param as UUID; writes a 400 and returns false on failure.
func pathID(c *gin.Context, name string) (string, bool) {
	v := c.Param(name)
	if uuid.Validate(v) != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid "+name, nil)
		return "", false
	}
	return v, true
}

func (h *ChecklistHandler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrValidation):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, repo.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "checklist not found", nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("checklist operation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

func (h *ChecklistHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		response.Error[any](c, http.StatusBadRequest, "skip must be a non-negative integer", nil)
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > app.MaxPageSize {
		response.Error[any](c, http.StatusBadRequest, "limit must be between 1 and 100", nil)
		return
	}

	lists, total, err := h.Svc.List(c.Request.Context(), uid, skip, limit)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	out := make([]checklistResponse, len(lists))
	for i := range lists {
		out[i] = toChecklistResponse(&lists[i])
	}
	response.Success[any](c, http.StatusOK, out, "checklists",
		map[string]any{"total": total, "skip": skip, "limit": limit})
}

func (h *ChecklistHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req checklistCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := app.CreateChecklistInput{Title: req.Title, Description: req.Description}
	for _, it := range req.Items {
		in.Items = append(in.Items, app.NewItemInput{
			Description:  it.Description,
			Priority:     entity.Priority(it.Priority),
			DueDate:      it.DueDate,
			DisplayOrder: it.DisplayOrder,
		})
	}

	created, err := h.Svc.Create(c.Request.Context(), uid, in)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success[any](c, http.StatusCreated, toChecklistResponse(created), "checklist created", nil)
}

func (h *ChecklistHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cl, err := h.Svc.Get(c.Request.Context(), uid, id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, toChecklistResponse(cl), "checklist", nil)
}

func (h *ChecklistHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req checklistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	updated, err := h.Svc.Update(c.Request.Context(), uid, id, app.UpdateChecklistInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, toChecklistResponse(updated), "checklist updated", nil)
}

func (h *ChecklistHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.Svc.Delete(c.Request.Context(), uid, id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if !deleted {
		response.Error[any](c, http.StatusNotFound, "checklist not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "checklist deleted", nil)
}

func (h *ChecklistHandler) CreateItem(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req itemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	it, err := h.Svc.CreateItem(c.Request.Context(), uid, id, app.NewItemInput{
		Description:  req.Description,
		Priority:     entity.Priority(req.Priority),
		DueDate:      req.DueDate,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success[any](c, http.StatusCreated, toItemResponse(it, time.Now()), "item created", nil)
}

// scopedItem resolves :itemID and checks it belongs to the :id checklist.
// A mismatch is indistinguishable from a missing item.
func (h *ChecklistHandler) scopedItem(c *gin.Context) (userID, itemID string, ok bool) {
	uid := c.GetString(middleware.CtxUserIDKey)
	checklistID, idOK := pathID(c, "id")
	if !idOK {
		return "", "", false
	}
	itemID, idOK = pathID(c, "itemID")
	if !idOK {
		return "", "", false
	}
	it, err := h.Svc.GetItem(c.Request.Context(), uid, itemID)
	if err != nil {
		h.serviceError(c, err)
		return "", "", false
	}
	if it.ChecklistID != checklistID {
		response.Error[any](c, http.StatusNotFound, "item not found", nil)
		return "", "", false
	}
	return uid, itemID, true
}

func (h *ChecklistHandler) UpdateItem(c *gin.Context) {
	uid, itemID, ok := h.scopedItem(c)
	if !ok {
		return
	}
	var req itemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	in := app.UpdateItemInput{
		Description:  req.Description,
		IsCompleted:  req.IsCompleted,
		DueDate:      req.DueDate,
		DisplayOrder: req.DisplayOrder,
	}
	if req.Priority != nil {
		p := entity.Priority(*req.Priority)
		in.Priority = &p
	}
	it, err := h.Svc.UpdateItem(c.Request.Context(), uid, itemID, in)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, toItemResponse(it, time.Now()), "item updated", nil)
}

func (h *ChecklistHandler) DeleteItem(c *gin.Context) {
	uid, itemID, ok := h.scopedItem(c)
	if !ok {
		return
	}
	deleted, err := h.Svc.DeleteItem(c.Request.Context(), uid, itemID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if !deleted {
		response.Error[any](c, http.StatusNotFound, "item not found", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "item deleted", nil)
}

func (h *ChecklistHandler) ToggleItem(c *gin.Context) {
	uid, itemID, ok := h.scopedItem(c)
	if !ok {
		return
	}
	it, err := h.Svc.ToggleItem(c.Request.Context(), uid, itemID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, toItemResponse(it, time.Now()), "item toggled", nil)
}

func (h *ChecklistHandler) Search(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "size must be an integer", nil)
		return
	}
	hits, err := h.Svc.SearchChecklists(c.Request.Context(), uid, q, size)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
