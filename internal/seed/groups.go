package seed

import (
	"fmt"

	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInGroups are created on every bootstrap that asks for them.
var BuiltInGroups = []models.Group{
	{Title: "Cats", Slug: "cats", Description: "Photos and stories about cats."},
	{Title: "Travel", Slug: "travel", Description: "Trip reports and places worth seeing."},
	{Title: "Books", Slug: "books", Description: "What we are reading and why."},
	{Title: "Programming", Slug: "programming", Description: "Code, tools and the craft of software."},
}

// Groups creates the built-in groups, refreshing title and description when
// the slug already exists.
func Groups(db *gorm.DB) error {
	for _, item := range BuiltInGroups {
		group := item
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description"}),
		}).Create(&group).Error; err != nil {
			return fmt.Errorf("seed group %s: %w", item.Slug, err)
		}
	}
	return nil
}
