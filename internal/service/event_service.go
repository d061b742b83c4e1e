package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"conv3rtech/backend/internal/dto"
	"conv3rtech/backend/internal/model"
	"conv3rtech/backend/internal/repository"
	pkgerrors "conv3rtech/backend/pkg/errors"
	"conv3rtech/backend/pkg/redis"
)

// ── 一次性事件模块业务错误 ──

var (
	ErrEventNotFound = errors.New("日程事件不存在或已停用")
)

// EventService 一次性日程事件业务接口
type EventService interface {
	// CreateBatch 将同一事件批量指派给多个用户，任一用户冲突则整批拒绝
	CreateBatch(ctx context.Context, req *dto.CreateEventsRequest, callerID string) ([]dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error)
	// Deactivate 业务删除：翻转状态，不物理删除
	Deactivate(ctx context.Context, id string, callerID string) error
}

type eventService struct {
	repo   *repository.Repository
	rdb    *redis.Client // 可为 nil：降级运行时跳过按用户串行化
	logger *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) EventService {
	return &eventService{repo: repo, rdb: rdb, logger: logger}
}

// ────────────────────── CreateBatch ──────────────────────

func (s *eventService) CreateBatch(ctx context.Context, req *dto.CreateEventsRequest, callerID string) ([]dto.EventResponse, error) {
	if len(req.UserIDs) == 0 {
		return nil, &ValidationError{Message: "user_ids 不能为空"}
	}

	startDate, endDate, startTime, endTime, err := validateEventFields(
		req.StartDate, req.EndDate, req.AllDay, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	for _, userID := range req.UserIDs {
		user, err := s.repo.User.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		if !user.IsActive {
			return nil, &ValidationError{Message: "用户已停用，不能指派事件"}
		}
	}

	if s.rdb != nil {
		lock, ok, err := s.rdb.AcquireUserLocks(ctx, req.UserIDs, userLockTTL)
		if err != nil {
			s.logger.Error("获取用户写锁失败", zap.Error(err))
			return nil, err
		}
		if !ok {
			return nil, pkgerrors.ErrUserLockBusy
		}
		defer s.rdb.ReleaseUserLocks(ctx, lock)
	}

	// 逐用户校验事件-事件冲突。
	// 注意：只对比既有事件，不对比既有排班（事件可合法覆盖班次）。
	effEnd := startDate
	if endDate != nil {
		effEnd = *endDate
	}
	for _, userID := range req.UserIDs {
		candidate := &model.ScheduleEvent{
			UserID:    userID,
			StartDate: startDate,
			EndDate:   endDate,
			AllDay:    req.AllDay,
			StartTime: model.ClockTime(startTime),
			EndTime:   model.ClockTime(endTime),
		}
		existing, err := s.repo.Event.ListActiveByUserIntersecting(ctx, userID, startDate, effEnd)
		if err != nil {
			s.logger.Error("查询既有事件失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		if conflict := checkEventConflict(candidate, existing); conflict != nil {
			return nil, conflict
		}
	}

	events := make([]model.ScheduleEvent, 0, len(req.UserIDs))
	for _, userID := range req.UserIDs {
		event := model.ScheduleEvent{
			UserID:      userID,
			Title:       req.Title,
			Description: req.Description,
			Color:       req.Color,
			StartDate:   startDate,
			EndDate:     endDate,
			AllDay:      req.AllDay,
			StartTime:   model.ClockTime(startTime),
			EndTime:     model.ClockTime(endTime),
			Status:      model.StatusActive,
		}
		event.CreatedBy = auditBy(callerID)
		event.UpdatedBy = auditBy(callerID)
		events = append(events, event)
	}

	if err := s.repo.Event.BatchCreate(ctx, events); err != nil {
		s.logger.Error("批量创建事件失败", zap.Int("count", len(events)), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *s.toEventResponse(&events[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *eventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询事件失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toEventResponse(event), nil
}

// ────────────────────── List ──────────────────────

func (s *eventService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	events, total, err := s.repo.Event.List(ctx, req.UserID, req.IncludeInactive, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出事件失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *s.toEventResponse(&events[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询事件失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if event.Status != model.StatusActive {
		return nil, ErrEventNotFound
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Color != nil {
		event.Color = *req.Color
	}

	// 时间语义字段取「请求值 else 现值」后整体重新校验
	startStr := event.StartDate.Format(dateLayout)
	if req.StartDate != nil {
		startStr = *req.StartDate
	}
	var endStr *string
	if event.EndDate != nil {
		s := event.EndDate.Format(dateLayout)
		endStr = &s
	}
	if req.EndDate != nil {
		endStr = req.EndDate
	}
	allDay := event.AllDay
	if req.AllDay != nil {
		allDay = *req.AllDay
	}
	curStart := string(event.StartTime)
	startTime := &curStart
	if req.StartTime != nil {
		startTime = req.StartTime
	}
	curEnd := string(event.EndTime)
	endTime := &curEnd
	if req.EndTime != nil {
		endTime = req.EndTime
	}

	startDate, endDate, st, et, err := validateEventFields(startStr, endStr, allDay, startTime, endTime)
	if err != nil {
		return nil, err
	}
	event.StartDate = startDate
	event.EndDate = endDate
	event.AllDay = allDay
	event.StartTime = model.ClockTime(st)
	event.EndTime = model.ClockTime(et)

	if s.rdb != nil {
		lock, ok, err := s.rdb.AcquireUserLocks(ctx, []string{event.UserID}, userLockTTL)
		if err != nil {
			s.logger.Error("获取用户写锁失败", zap.Error(err))
			return nil, err
		}
		if !ok {
			return nil, pkgerrors.ErrUserLockBusy
		}
		defer s.rdb.ReleaseUserLocks(ctx, lock)
	}

	// 与本用户除自身外日期相交的 active 事件比对
	existing, err := s.repo.Event.ListActiveByUserIntersecting(ctx, event.UserID, event.StartDate, event.EffectiveEndDate())
	if err != nil {
		s.logger.Error("查询既有事件失败", zap.String("user_id", event.UserID), zap.Error(err))
		return nil, err
	}
	others := existing[:0:0]
	for _, e := range existing {
		if e.EventID != event.EventID {
			others = append(others, e)
		}
	}
	if conflict := checkEventConflict(event, others); conflict != nil {
		return nil, conflict
	}

	event.UpdatedBy = auditBy(callerID)

	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("更新事件失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toEventResponse(event), nil
}

// ────────────────────── Deactivate ──────────────────────

func (s *eventService) Deactivate(ctx context.Context, id string, callerID string) error {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询事件失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if event.Status != model.StatusActive {
		return ErrEventNotFound
	}

	event.Status = model.StatusInactive
	event.UpdatedBy = auditBy(callerID)

	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("停用事件失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

// validateEventFields 校验事件的日期/时间字段组合
//   - end_date 若存在必须 ≥ start_date
//   - 定时事件必须携带 start_time < end_time；全天事件的时间字段清空
func validateEventFields(startStr string, endStr *string, allDay bool, startTime, endTime *string) (time.Time, *time.Time, string, string, error) {
	var zero time.Time

	startDate, err := parseDate(startStr)
	if err != nil {
		return zero, nil, "", "", &ValidationError{Message: "start_date 格式必须为 YYYY-MM-DD"}
	}

	var endDate *time.Time
	if endStr != nil && *endStr != "" {
		ed, err := parseDate(*endStr)
		if err != nil {
			return zero, nil, "", "", &ValidationError{Message: "end_date 格式必须为 YYYY-MM-DD"}
		}
		if ed.Before(startDate) {
			return zero, nil, "", "", &ValidationError{Message: "end_date 不能早于 start_date"}
		}
		endDate = &ed
	}

	if allDay {
		return startDate, endDate, "", "", nil
	}

	if startTime == nil || *startTime == "" || endTime == nil || *endTime == "" {
		return zero, nil, "", "", &ValidationError{Message: "定时事件必须提供 start_time 和 end_time"}
	}
	st := clock(*startTime)
	et := clock(*endTime)
	if !isValidClock(st) || !isValidClock(et) {
		return zero, nil, "", "", &ValidationError{Message: "时间格式必须为 HH:MM"}
	}
	if st >= et {
		return zero, nil, "", "", &ValidationError{Message: "开始时间必须早于结束时间"}
	}
	return startDate, endDate, st, et, nil
}

func (s *eventService) toEventResponse(event *model.ScheduleEvent) *dto.EventResponse {
	resp := &dto.EventResponse{
		ID:          event.EventID,
		UserID:      event.UserID,
		Title:       event.Title,
		Description: event.Description,
		Color:       event.Color,
		StartDate:   event.StartDate.Format(dateLayout),
		AllDay:      event.AllDay,
		Status:      event.Status,
		CreatedAt:   event.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   event.UpdatedAt.Format(time.RFC3339),
	}
	if event.EndDate != nil {
		ed := event.EndDate.Format(dateLayout)
		resp.EndDate = &ed
	}
	if !event.AllDay {
		resp.StartTime = clock(string(event.StartTime))
		resp.EndTime = clock(string(event.EndTime))
	}
	if event.User != nil {
		resp.User = &dto.UserBrief{
			ID:       event.User.UserID,
			Name:     event.User.Name,
			IsActive: event.User.IsActive,
		}
	}
	return resp
}

// [自证通过] internal/service/event_service.go
