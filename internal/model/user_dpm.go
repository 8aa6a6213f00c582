package model

import "time"

// UserDpm maps to user_dpms. One persisted point record against a driver.
//
// States per entry, as the (approved, ignored) pair:
//
//	(false, false) pending
//	(true,  false) approved, visible to driver
//	(true,  true)  approved, hidden from driver
//	(false, true)  denied
//
// Points and TypeName are snapshots taken at creation; later edits to the
// DpmType never touch existing entries. Mutated only through
// service.UserDpmService.
type UserDpm struct {
	ID        int       `gorm:"primaryKey"                         json:"id"`
	CreatedBy int       `gorm:"not null"                           json:"created_by"`
	UserID    int       `gorm:"not null"                           json:"user_id"`
	DpmTypeID int       `gorm:"not null"                           json:"dpm_type_id"`
	TypeName  string    `gorm:"type:varchar(255);not null"         json:"type_name"`
	Points    int       `gorm:"not null"                           json:"points"`
	Block     string    `gorm:"type:varchar(20)"                   json:"block"`
	Date      time.Time `gorm:"type:date;not null"                 json:"date"`
	StartTime string    `gorm:"type:varchar(4);not null"           json:"start_time"` // HHmm
	EndTime   string    `gorm:"type:varchar(4);not null"           json:"end_time"`   // HHmm
	Location  string    `gorm:"type:varchar(10)"                   json:"location"`
	Notes     string    `gorm:"type:text"                          json:"notes"`
	Approved  bool      `gorm:"not null;default:false"             json:"approved"`
	Ignored   bool      `gorm:"not null;default:false"             json:"ignored"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	User        *User    `gorm:"foreignKey:UserID"    json:"user,omitempty"`
	CreatedUser *User    `gorm:"foreignKey:CreatedBy" json:"created_user,omitempty"`
	DpmType     *DpmType `gorm:"foreignKey:DpmTypeID" json:"dpm_type,omitempty"`
}

// TableName sets the table name.
func (UserDpm) TableName() string { return "user_dpms" }

// StatusMessage describes the approval state for display.
func (d *UserDpm) StatusMessage() string {
	if d.Approved && !d.Ignored {
		return "Approved"
	}
	if d.Approved {
		return "Approved; invisible to driver"
	}
	if !d.Ignored {
		return "Not looked at"
	}
	return "Denied"
}
