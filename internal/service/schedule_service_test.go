package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"conv3rtech/backend/internal/dto"
	"conv3rtech/backend/internal/model"
	"conv3rtech/backend/internal/repository"
)

func setupScheduleTest() (*mockUserRepo, *mockScheduleRepo, ScheduleService) {
	userRepo := newMockUserRepo()
	schedRepo := newMockScheduleRepo()
	repo := &repository.Repository{
		User:     userRepo,
		Schedule: schedRepo,
		Event:    newMockEventRepo(),
	}
	return userRepo, schedRepo, NewScheduleService(repo, nil, zap.NewNop())
}

func createSchedReq(userIDs []string, pattern dto.RawWeeklyPattern) *dto.CreateSchedulesRequest {
	return &dto.CreateSchedulesRequest{
		UserIDs:   userIDs,
		StartDate: "2025-01-01",
		Title:     "门店早班",
		Pattern:   pattern,
	}
}

func TestScheduleCreateBatch_成功(t *testing.T) {
	userRepo, schedRepo, svc := setupScheduleTest()
	userRepo.add("user-a", "张三", true)
	userRepo.add("user-b", "李四", true)

	req := createSchedReq([]string{"user-a", "user-b"}, dto.RawWeeklyPattern{
		"Monday": {slotInput("08:00", "12:00")},
	})
	result, err := svc.CreateBatch(context.Background(), req, "admin-1")
	if err != nil {
		t.Fatalf("CreateBatch 应成功: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望创建 2 条排班，实际 %d", len(result))
	}
	if len(schedRepo.schedules) != 2 {
		t.Errorf("期望落库 2 行，实际 %d", len(schedRepo.schedules))
	}
	if _, ok := result[0].Pattern["monday"]; !ok {
		t.Error("响应中星期键应为小写")
	}
	if result[0].Status != model.StatusActive {
		t.Errorf("新建排班应为 active，实际 %s", result[0].Status)
	}
}

func TestScheduleCreateBatch_同星期重叠拒绝(t *testing.T) {
	userRepo, _, svc := setupScheduleTest()
	userRepo.add("user-a", "张三", true)

	seed := createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"monday": {slotInput("08:00", "12:00")},
	})
	if _, err := svc.CreateBatch(context.Background(), seed, "admin-1"); err != nil {
		t.Fatalf("预置排班应成功: %v", err)
	}

	// 11:00–13:00 与 08:00–12:00 重叠
	overlap := createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"monday": {slotInput("11:00", "13:00")},
	})
	_, err := svc.CreateBatch(context.Background(), overlap, "admin-1")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("期望 ConflictError，实际: %v", err)
	}
	if conflict.UserID != "user-a" || conflict.Weekday != "monday" {
		t.Errorf("冲突上下文错误: %+v", conflict)
	}
}

func TestScheduleCreateBatch_首尾相接与不同星期放行(t *testing.T) {
	userRepo, schedRepo, svc := setupScheduleTest()
	userRepo.add("user-a", "张三", true)

	seed := createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"monday": {slotInput("08:00", "12:00")},
	})
	if _, err := svc.CreateBatch(context.Background(), seed, "admin-1"); err != nil {
		t.Fatalf("预置排班应成功: %v", err)
	}

	// 12:00–14:00 首尾相接
	touching := createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"monday": {slotInput("12:00", "14:00")},
	})
	if _, err := svc.CreateBatch(context.Background(), touching, "admin-1"); err != nil {
		t.Errorf("首尾相接应放行: %v", err)
	}

	// tuesday 同时段
	otherDay := createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"tuesday": {slotInput("08:00", "12:00")},
	})
	if _, err := svc.CreateBatch(context.Background(), otherDay, "admin-1"); err != nil {
		t.Errorf("不同星期应放行: %v", err)
	}
	if len(schedRepo.schedules) != 3 {
		t.Errorf("期望落库 3 行，实际 %d", len(schedRepo.schedules))
	}
}

func TestScheduleCreateBatch_任一用户冲突整批拒绝(t *testing.T) {
	userRepo, schedRepo, svc := setupScheduleTest()
	userRepo.add("user-a", "张三", true)
	userRepo.add("user-b", "李四", true)

	seed := createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"monday": {slotInput("08:00", "12:00")},
	})
	if _, err := svc.CreateBatch(context.Background(), seed, "admin-1"); err != nil {
		t.Fatalf("预置排班应成功: %v", err)
	}

	// user-a 冲突，user-b 干净；整批必须拒绝，b 零写入
	batch := createSchedReq([]string{"user-a", "user-b"}, dto.RawWeeklyPattern{
		"monday": {slotInput("10:00", "14:00")},
	})
	_, err := svc.CreateBatch(context.Background(), batch, "admin-1")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("期望 ConflictError，实际: %v", err)
	}
	for _, s := range schedRepo.schedules {
		if s.UserID == "user-b" {
			t.Error("整批拒绝后不应有 user-b 的排班落库")
		}
	}
}

func TestScheduleCreateBatch_落库失败零写入(t *testing.T) {
	userRepo, schedRepo, svc := setupScheduleTest()
	userRepo.add("user-a", "张三", true)
	schedRepo.failNext = errors.New("连接中断")

	_, err := svc.CreateBatch(context.Background(), createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"monday": {slotInput("08:00", "12:00")},
	}), "admin-1")
	if err == nil {
		t.Fatal("落库失败应透传错误")
	}
	if len(schedRepo.schedules) != 0 {
		t.Errorf("失败后不应有任何行落库，实际 %d", len(schedRepo.schedules))
	}
}

func TestScheduleCreateBatch_用户不存在或停用(t *testing.T) {
	userRepo, _, svc := setupScheduleTest()
	userRepo.add("user-a", "张三", true)
	userRepo.add("user-c", "王五", false)

	pattern := dto.RawWeeklyPattern{"monday": {slotInput("08:00", "12:00")}}

	_, err := svc.CreateBatch(context.Background(), createSchedReq([]string{"user-x"}, pattern), "admin-1")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}

	_, err = svc.CreateBatch(context.Background(), createSchedReq([]string{"user-a", "user-c"}, pattern), "admin-1")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("停用用户应返回 ValidationError，实际: %v", err)
	}

	_, err = svc.CreateBatch(context.Background(), createSchedReq(nil, pattern), "admin-1")
	if !errors.As(err, &verr) {
		t.Errorf("空用户列表应返回 ValidationError，实际: %v", err)
	}
}

func TestScheduleUpdate_改模式重新校验冲突(t *testing.T) {
	userRepo, _, svc := setupScheduleTest()
	userRepo.add("user-a", "张三", true)

	first, err := svc.CreateBatch(context.Background(), createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"monday": {slotInput("08:00", "12:00")},
	}), "admin-1")
	if err != nil {
		t.Fatalf("预置排班应成功: %v", err)
	}
	second, err := svc.CreateBatch(context.Background(), createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"tuesday": {slotInput("08:00", "12:00")},
	}), "admin-1")
	if err != nil {
		t.Fatalf("预置排班应成功: %v", err)
	}

	// 把第二份改到与第一份重叠
	_, err = svc.Update(context.Background(), second[0].ID, &dto.UpdateScheduleRequest{
		Pattern: dto.RawWeeklyPattern{"monday": {slotInput("10:00", "14:00")}},
	}, "admin-1")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("期望 ConflictError，实际: %v", err)
	}
	if conflict.ConflictID != first[0].ID {
		t.Errorf("冲突应指向第一份排班 %s，实际 %s", first[0].ID, conflict.ConflictID)
	}

	// 改回自身原时段不算与自己冲突
	updated, err := svc.Update(context.Background(), first[0].ID, &dto.UpdateScheduleRequest{
		Pattern: dto.RawWeeklyPattern{"monday": {slotInput("09:00", "13:00")}},
	}, "admin-1")
	if err != nil {
		t.Fatalf("更新自身模式不应与自己冲突: %v", err)
	}
	if updated.Pattern["monday"][0].StartTime != "09:00" {
		t.Errorf("更新后模式错误: %+v", updated.Pattern)
	}
}

func TestScheduleUpdate_不存在(t *testing.T) {
	_, _, svc := setupScheduleTest()

	title := "改名"
	_, err := svc.Update(context.Background(), "sched-x", &dto.UpdateScheduleRequest{Title: &title}, "admin-1")
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("期望 ErrScheduleNotFound，实际: %v", err)
	}
}

func TestScheduleDeactivate_释放用户可用性(t *testing.T) {
	userRepo, _, svc := setupScheduleTest()
	userRepo.add("user-a", "张三", true)
	userRepo.add("user-b", "李四", true)

	created, err := svc.CreateBatch(context.Background(), createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"monday": {slotInput("08:00", "12:00")},
	}), "admin-1")
	if err != nil {
		t.Fatalf("预置排班应成功: %v", err)
	}

	available, err := svc.ListAvailableUsers(context.Background())
	if err != nil {
		t.Fatalf("ListAvailableUsers 应成功: %v", err)
	}
	if len(available) != 1 || available[0].ID != "user-b" {
		t.Fatalf("user-a 已有排班，可用用户应只剩 user-b: %+v", available)
	}

	if err := svc.Deactivate(context.Background(), created[0].ID, "admin-1"); err != nil {
		t.Fatalf("Deactivate 应成功: %v", err)
	}

	available, err = svc.ListAvailableUsers(context.Background())
	if err != nil {
		t.Fatalf("ListAvailableUsers 应成功: %v", err)
	}
	if len(available) != 2 {
		t.Errorf("停用排班后 user-a 应重新可用，实际可用 %d 人", len(available))
	}

	// 停用排班对新建不再构成冲突
	if _, err := svc.CreateBatch(context.Background(), createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"monday": {slotInput("08:00", "12:00")},
	}), "admin-1"); err != nil {
		t.Errorf("停用排班不应参与冲突校验: %v", err)
	}

	// 重复停用按不存在处理
	if err := svc.Deactivate(context.Background(), created[0].ID, "admin-1"); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("重复停用期望 ErrScheduleNotFound，实际: %v", err)
	}
}

func TestScheduleCreateBatch_操作者缺省审计列保持空(t *testing.T) {
	userRepo, schedRepo, svc := setupScheduleTest()
	userRepo.add("user-a", "张三", true)

	req := createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"Monday": {slotInput("08:00", "12:00")},
	})
	result, err := svc.CreateBatch(context.Background(), req, "")
	if err != nil {
		t.Fatalf("CreateBatch 应成功: %v", err)
	}
	stored := schedRepo.schedules[result[0].ID]
	if stored.CreatedBy != nil || stored.UpdatedBy != nil {
		t.Error("操作者缺省时审计列应保持 nil，不应写空串")
	}

	req2 := createSchedReq([]string{"user-a"}, dto.RawWeeklyPattern{
		"Tuesday": {slotInput("08:00", "12:00")},
	})
	result2, err := svc.CreateBatch(context.Background(), req2, "admin-1")
	if err != nil {
		t.Fatalf("CreateBatch 应成功: %v", err)
	}
	stored2 := schedRepo.schedules[result2[0].ID]
	if stored2.CreatedBy == nil || *stored2.CreatedBy != "admin-1" {
		t.Error("操作者存在时审计列应记录其标识")
	}
}

// [自证通过] internal/service/schedule_service_test.go
