// Package models contains data structures for the application's domain models.
package models

import "time"

// Post is a single authored text item, optionally grouped and illustrated.
// CreatedAt is assigned on insert and never rewritten by edits.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index;autoCreateTime" json:"pub_date"`
	Image     string    `json:"image,omitempty"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID   *uint     `gorm:"index" json:"group_id,omitempty"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
}

// PostFilter narrows a post listing. Zero values mean "no restriction".
type PostFilter struct {
	GroupID    uint
	AuthorID   uint
	FollowerID uint
}
