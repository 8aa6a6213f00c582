package model

import "time"

// W2WColor maps to w2w_colors. A When2Work shift color code that may be
// bound to one or more DPM types for autogen classification.
type W2WColor struct {
	ID        int       `gorm:"primaryKey"                         json:"id"`
	ColorCode string    `gorm:"type:varchar(10);not null;uniqueIndex" json:"color_code"`
	ColorName string    `gorm:"type:varchar(100);not null"         json:"color_name"`
	HexCode   string    `gorm:"type:varchar(6);not null"           json:"hex_code"`
	Active    bool      `gorm:"not null;default:true"              json:"active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	DpmTypes []DpmType `gorm:"foreignKey:W2WColorID" json:"dpm_types,omitempty"`
}

// TableName sets the table name.
func (W2WColor) TableName() string { return "w2w_colors" }
