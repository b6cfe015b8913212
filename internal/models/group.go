// Package models contains data structures for the application's domain models.
package models

// Group is a topic posts may optionally belong to.
type Group struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:50;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName specifies the table name for GORM
func (Group) TableName() string {
	return "groups"
}
