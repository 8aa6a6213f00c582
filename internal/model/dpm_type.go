package model

import "time"

// DpmGroup maps to dpm_groups. A named bucket of DPM types.
type DpmGroup struct {
	ID        int       `gorm:"primaryKey"                         json:"id"`
	GroupName string    `gorm:"type:varchar(500);not null"         json:"group_name"`
	Active    bool      `gorm:"not null;default:true"              json:"active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	DpmTypes []DpmType `gorm:"foreignKey:DpmGroupID" json:"dpm_types,omitempty"`
}

// TableName sets the table name.
func (DpmGroup) TableName() string { return "dpm_groups" }

// DpmType maps to dpm_types. A point-value catalog entry, optionally
// bound to a When2Work color for autogen classification. Administered
// elsewhere; read-only to the autogen and ledger code.
type DpmType struct {
	ID         int       `gorm:"primaryKey"                         json:"id"`
	DpmGroupID int       `gorm:"not null"                           json:"dpm_group_id"`
	Name       string    `gorm:"type:varchar(255);not null"         json:"name"`
	Points     int       `gorm:"not null"                           json:"points"`
	Active     bool      `gorm:"not null;default:true"              json:"active"`
	W2WColorID *int      `json:"w2w_color_id,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the table name.
func (DpmType) TableName() string { return "dpm_types" }
