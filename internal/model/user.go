package model

import "time"

// Role values stored on users.role.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSupervisor = "supervisor"
	RoleDriver     = "driver"
)

// User maps to users.
// Points is the running DPM balance; only the ledger transitions in
// service.UserDpmService write it.
type User struct {
	ID           int       `gorm:"primaryKey"                                 json:"id"`
	Firstname    string    `gorm:"type:varchar(100);not null"                 json:"firstname"`
	Lastname     string    `gorm:"type:varchar(100);not null"                 json:"lastname"`
	Username     string    `gorm:"type:varchar(255);not null;uniqueIndex"     json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                 json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'driver'" json:"role"`
	Points       int       `gorm:"not null;default:0"                         json:"points"`
	ManagerID    *int      `json:"manager_id,omitempty"`
	FullTime     bool      `gorm:"not null;default:true"                      json:"full_time"`
	Changed      bool      `gorm:"not null;default:false"                     json:"changed"` // has set own password
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"updated_at"`

	Manager *User `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}

// TableName sets the table name.
func (User) TableName() string { return "users" }

// FullName returns "Firstname Lastname".
func (u *User) FullName() string { return u.Firstname + " " + u.Lastname }

// HasAnyRole reports whether the user holds one of the given roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
