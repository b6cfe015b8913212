package seed

import (
	"context"
	"fmt"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"gorm.io/gorm"
)

// Options configures the demo data seeder.
type Options struct {
	Users           int
	Groups          int
	PostsPerUser    int
	CommentsPerPost int
	FollowsPerUser  int
	// MaxDays bounds how far back post creation times are spread.
	MaxDays int
	// RandSeed makes generated content reproducible when non-zero.
	RandSeed int64
}

// DefaultOptions is a small but browsable data set.
var DefaultOptions = Options{
	Users:           8,
	Groups:          4,
	PostsPerUser:    6,
	CommentsPerPost: 2,
	FollowsPerUser:  3,
	MaxDays:         90,
}

// Summary reports how many rows a Seed run created.
type Summary struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int
}

// Seed populates the database with demo users, groups, posts, comments and follows.
// Roughly a third of posts are left without a group.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (Summary, error) {
	var sum Summary
	db = db.WithContext(ctx)

	f, err := NewFactory(db, opts)
	if err != nil {
		return sum, err
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return sum, err
		}
		users = append(users, u)
	}
	sum.Users = len(users)

	groups := make([]*models.Group, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		g, err := f.CreateGroup()
		if err != nil {
			return sum, err
		}
		groups = append(groups, g)
	}
	sum.Groups = len(groups)

	posts := make([]*models.Post, 0, len(users)*opts.PostsPerUser)
	for _, u := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			var group *models.Group
			if len(groups) > 0 && f.Pick(3) > 0 {
				group = groups[f.Pick(len(groups))]
			}
			posts = append(posts, f.BuildPost(u, group))
		}
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return sum, fmt.Errorf("create posts: %w", err)
	}
	sum.Posts = len(posts)

	if len(users) > 0 {
		for _, p := range posts {
			for i := 0; i < opts.CommentsPerPost; i++ {
				if _, err := f.CreateComment(users[f.Pick(len(users))], p); err != nil {
					return sum, err
				}
				sum.Comments++
			}
		}
	}

	for _, u := range users {
		if len(users) < 2 {
			break
		}
		seen := map[uint]bool{u.ID: true}
		for i := 0; i < opts.FollowsPerUser && len(seen) < len(users); i++ {
			author := users[f.Pick(len(users))]
			if seen[author.ID] {
				continue
			}
			seen[author.ID] = true
			if err := f.CreateFollow(u, author); err != nil {
				return sum, fmt.Errorf("create follow: %w", err)
			}
			sum.Follows++
		}
	}

	middleware.Logger.InfoContext(ctx, "database seeded",
		slog.Int("users", sum.Users),
		slog.Int("groups", sum.Groups),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int("follows", sum.Follows),
	)
	return sum, nil
}
