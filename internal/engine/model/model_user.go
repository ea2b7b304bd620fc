package model

/**
 * @file: model_user.go
 * @description: user model
 */

type User struct {
	BaseModel
	UserId    string `gorm:"column:user_id;not null;uniqueIndex" json:"userId"`
	TenantId  string `gorm:"column:tenant_id;not null;index" json:"tenantId"`
	Email     string `gorm:"column:email;not null;index:idx_tenant_email,unique,composite:tenant_email" json:"email"`
	FullName  string `gorm:"column:full_name" json:"fullName"`
	Password  string `gorm:"column:password" json:"-"`
	Role      string `gorm:"column:role;not null" json:"role"`
	IsEnabled int    `gorm:"column:is_enabled;not null;default:1" json:"isEnabled"` // 0: disabled, 1: enabled
}

func (User) TableName() string {
	return "t_user"
}

// AddUserReq direct user creation by an admin.
type AddUserReq struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateUserRoleReq role change request.
type UpdateUserRoleReq struct {
	Role string `json:"role"`
}

type Login struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResp struct {
	UserInfo UserInfo          `json:"userInfo"`
	Token    map[string]string `json:"token"`
}

type UserInfo struct {
	UserId   string `json:"userId"`
	TenantId string `json:"tenantId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// ToUserInfo strips credentials from a user row.
func ToUserInfo(u *User) *UserInfo {
	return &UserInfo{
		UserId:   u.UserId,
		TenantId: u.TenantId,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		Active:   u.IsEnabled == 1,
	}
}
