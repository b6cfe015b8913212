// Package testutil provides shared test doubles and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"yatube/internal/database"
	"yatube/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a migrated in-memory SQLite database with foreign keys on.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser inserts a user with a throwaway email and password hash.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "not-a-real-hash",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// CreateGroup inserts a group with the given slug.
func CreateGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "Test group " + slug}
	if err := db.Create(g).Error; err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return g
}

// CreatePosts inserts n posts by author, each one second newer than the last,
// starting at base. groupID may be nil.
func CreatePosts(t *testing.T, db *gorm.DB, author *models.User, groupID *uint, n int, base time.Time) []*models.Post {
	t.Helper()
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		p := &models.Post{
			Text:      fmt.Sprintf("post %d by %s", i, author.Username),
			AuthorID:  author.ID,
			GroupID:   groupID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("create post: %v", err)
		}
		posts = append(posts, p)
	}
	return posts
}
