package service

import "yatube/internal/models"

// CanMutate reports whether actingUserID may edit post. Anonymous actors (0) never may.
func CanMutate(actingUserID uint, post *models.Post) bool {
	return post != nil && actingUserID != 0 && actingUserID == post.AuthorID
}
