package models

// User rows are owned by the identity service; the API only reads them.
type User struct {
	BaseModel

	Username string `gorm:"size:150;uniqueIndex;not null"`
	Email    string `gorm:"size:254;uniqueIndex;not null"`
}
