package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
	PaginationRequest
}

// UserResponse 用户信息响应
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// [自证通过] internal/dto/user.go
