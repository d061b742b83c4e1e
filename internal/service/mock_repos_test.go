package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"conv3rtech/backend/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) add(id, name string, isActive bool) {
	m.users[id] = &model.User{UserID: id, Name: name, IsActive: isActive}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, includeInactive bool, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if !includeInactive && !u.IsActive {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockUserRepo) ListActive(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.IsActive {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.WorkSchedule
	idCounter int
	failNext  error // 注入下一次 BatchCreate 的错误
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.WorkSchedule)}
}

func (m *mockScheduleRepo) BatchCreate(_ context.Context, schedules []model.WorkSchedule) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err // 整批失败，零行写入
	}
	for i := range schedules {
		m.idCounter++
		schedules[i].ScheduleID = fmt.Sprintf("sched-%d", m.idCounter)
		schedules[i].CreatedAt = time.Now()
		schedules[i].UpdatedAt = time.Now()
		schedules[i].Version = 1
		cp := schedules[i]
		m.schedules[cp.ScheduleID] = &cp
	}
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.WorkSchedule, error) {
	if s, ok := m.schedules[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) ListActiveByUser(_ context.Context, userID string) ([]model.WorkSchedule, error) {
	var result []model.WorkSchedule
	for _, s := range m.schedules {
		if s.UserID == userID && s.Status == model.StatusActive {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) ListActiveStarting(_ context.Context, cutoff time.Time, userIDs []string) ([]model.WorkSchedule, error) {
	filter := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		filter[id] = true
	}
	var result []model.WorkSchedule
	for _, s := range m.schedules {
		if s.Status != model.StatusActive || s.StartDate.After(cutoff) {
			continue
		}
		if len(filter) > 0 && !filter[s.UserID] {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockScheduleRepo) ListActiveUserIDs(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range m.schedules {
		if s.Status == model.StatusActive && !seen[s.UserID] {
			seen[s.UserID] = true
			ids = append(ids, s.UserID)
		}
	}
	return ids, nil
}

func (m *mockScheduleRepo) List(_ context.Context, userID string, includeInactive bool, offset, limit int) ([]model.WorkSchedule, int64, error) {
	var result []model.WorkSchedule
	for _, s := range m.schedules {
		if userID != "" && s.UserID != userID {
			continue
		}
		if !includeInactive && s.Status != model.StatusActive {
			continue
		}
		result = append(result, *s)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockScheduleRepo) Update(_ context.Context, schedule *model.WorkSchedule) error {
	if _, ok := m.schedules[schedule.ScheduleID]; !ok {
		return gorm.ErrRecordNotFound
	}
	schedule.Version++
	schedule.UpdatedAt = time.Now()
	cp := *schedule
	m.schedules[schedule.ScheduleID] = &cp
	return nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events    map[string]*model.ScheduleEvent
	idCounter int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.ScheduleEvent)}
}

func (m *mockEventRepo) BatchCreate(_ context.Context, events []model.ScheduleEvent) error {
	for i := range events {
		m.idCounter++
		events[i].EventID = fmt.Sprintf("ev-%d", m.idCounter)
		events[i].CreatedAt = time.Now()
		events[i].UpdatedAt = time.Now()
		events[i].Version = 1
		cp := events[i]
		m.events[cp.EventID] = &cp
	}
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.ScheduleEvent, error) {
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func intersects(e *model.ScheduleEvent, start, end time.Time) bool {
	return !e.StartDate.After(end) && !e.EffectiveEndDate().Before(start)
}

func (m *mockEventRepo) ListActiveByUserIntersecting(_ context.Context, userID string, start, end time.Time) ([]model.ScheduleEvent, error) {
	var result []model.ScheduleEvent
	for _, e := range m.events {
		if e.UserID == userID && e.Status == model.StatusActive && intersects(e, start, end) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEventRepo) ListActiveIntersecting(_ context.Context, start, end time.Time, userIDs []string) ([]model.ScheduleEvent, error) {
	filter := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		filter[id] = true
	}
	var result []model.ScheduleEvent
	for _, e := range m.events {
		if e.Status != model.StatusActive || !intersects(e, start, end) {
			continue
		}
		if len(filter) > 0 && !filter[e.UserID] {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockEventRepo) List(_ context.Context, userID string, includeInactive bool, offset, limit int) ([]model.ScheduleEvent, int64, error) {
	var result []model.ScheduleEvent
	for _, e := range m.events {
		if userID != "" && e.UserID != userID {
			continue
		}
		if !includeInactive && e.Status != model.StatusActive {
			continue
		}
		result = append(result, *e)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockEventRepo) Update(_ context.Context, event *model.ScheduleEvent) error {
	if _, ok := m.events[event.EventID]; !ok {
		return gorm.ErrRecordNotFound
	}
	event.Version++
	event.UpdatedAt = time.Now()
	cp := *event
	m.events[event.EventID] = &cp
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
