package models

import "time"

// BaseModel is embedded by every table that carries its own timestamps.
// Rows are hard-deleted so unique indexes and cascades apply as declared.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
