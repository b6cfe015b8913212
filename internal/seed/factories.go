// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"yatube/internal/auth"
	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password every seeded account logs in with.
const DefaultPassword = "Yatube!Demo2024"

var slugUnsafe = regexp.MustCompile(`[^a-z0-9-]+`)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	// hashed DefaultPassword, computed once
	passwordHash string
	// tag keeps usernames and slugs from different runs apart
	tag string
	seq int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
// A zero opts.RandSeed draws fresh content on every run.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		db:           db,
		opts:         opts,
		faker:        gofakeit.New(seed),
		passwordHash: hash,
		tag:          strconv.FormatInt((seed&0x7fffffff)%46656, 36),
	}, nil
}

func (f *Factory) next() int {
	f.seq++
	return f.seq
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := fmt.Sprintf("%s_%s%d", strings.ToLower(f.faker.FirstName()), f.tag, f.next())
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: f.passwordHash,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

// CreateGroup constructs and persists a sample group with a valid slug.
func (f *Factory) CreateGroup(overrides ...func(*models.Group)) (*models.Group, error) {
	adjective, noun := f.faker.Adjective(), f.faker.Noun()
	slug := slugUnsafe.ReplaceAllString(strings.ToLower(adjective+"-"+noun), "")
	slug = strings.Trim(slug, "-")
	if len(slug) > 40 {
		slug = strings.Trim(slug[:40], "-")
	}
	if slug == "" {
		slug = "group"
	}
	group := &models.Group{
		Title:       strings.ToUpper(adjective[:1]) + adjective[1:] + " " + noun,
		Slug:        fmt.Sprintf("%s-%s%d", slug, f.tag, f.next()),
		Description: f.faker.Sentence(12),
	}
	for _, override := range overrides {
		override(group)
	}
	if err := f.db.Create(group).Error; err != nil {
		return nil, fmt.Errorf("create group %s: %w", group.Slug, err)
	}
	return group, nil
}

// BuildPost constructs a post by author without persisting it. Creation
// times are spread over the last opts.MaxDays days.
func (f *Factory) BuildPost(author *models.User, group *models.Group, overrides ...func(*models.Post)) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	age := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute

	post := &models.Post{
		Text:      f.faker.Paragraph(1, 3, 12, "\n"),
		AuthorID:  author.ID,
		CreatedAt: time.Now().Add(-age),
	}
	if group != nil {
		post.GroupID = &group.ID
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.CreateInBatches(&posts, 100).Error
}

// CreateComment constructs and persists a comment by author on post.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Text:     f.faker.Sentence(f.faker.Number(3, 15)),
		AuthorID: author.ID,
		PostID:   post.ID,
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// CreateFollow makes follower follow author. Self-follows and existing edges are skipped.
func (f *Factory) CreateFollow(follower, author *models.User) error {
	if follower.ID == author.ID {
		return nil
	}
	return f.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
		DoNothing: true,
	}).Create(&models.Follow{UserID: follower.ID, AuthorID: author.ID}).Error
}

// Pick returns a pseudo-random index in [0, n).
func (f *Factory) Pick(n int) int {
	return f.faker.Number(0, n-1)
}
