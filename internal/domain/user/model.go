package user

import "time"

type Status string

const (
	Active   Status = "active"
	Disabled Status = "disabled"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserName  string     `gorm:"uniqueIndex;not null" json:"userName"`
	Password  string     `gorm:"not null" json:"-"`
	Salt      string     `gorm:"not null" json:"-"`
	Role      string     `gorm:"default:user" json:"role"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Avatar    string     `json:"avatar"`
	Gender    string     `json:"gender"`
	FullName  string     `json:"fullName"`
	Status    Status     `json:"status"`
	Birthday  *time.Time `json:"birthday"`
	Address   string     `json:"address"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
