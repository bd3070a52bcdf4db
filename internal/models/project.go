package models

type Project struct {
	BaseModel

	Title       string `gorm:"size:255;not null"`
	Description *string
	OwnerID     uint `gorm:"not null;index"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
