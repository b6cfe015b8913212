package service

import (
	"context"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_FollowUnfollow(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "a")
	b := testutil.CreateUser(t, s.db, "b")

	require.NoError(t, s.follows.Follow(ctx, a.ID, b.ID))
	ok, err := s.follows.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// Repeating the follow keeps a single edge.
	require.NoError(t, s.follows.Follow(ctx, a.ID, b.ID))
	followers, err := s.follows.FollowerCount(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followers)

	require.NoError(t, s.follows.Unfollow(ctx, a.ID, b.ID))
	ok, err = s.follows.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unfollowing again is harmless.
	require.NoError(t, s.follows.Unfollow(ctx, a.ID, b.ID))
}

func TestFollowService_SelfFollowIsNoop(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "a")

	before, err := s.follows.FollowerCount(ctx, a.ID)
	require.NoError(t, err)

	require.NoError(t, s.follows.Follow(ctx, a.ID, a.ID))

	after, err := s.follows.FollowerCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	ok, err := s.follows.IsFollowing(ctx, a.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowService_ByUsername(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := testutil.CreateUser(t, s.db, "a")
	b := testutil.CreateUser(t, s.db, "b")

	author, err := s.follows.FollowByUsername(ctx, a.ID, "b")
	require.NoError(t, err)
	assert.Equal(t, b.ID, author.ID)

	stats, err := s.follows.Stats(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowStats{Following: true, FollowingCount: 0, FollowerCount: 1}, stats)

	_, err = s.follows.UnfollowByUsername(ctx, a.ID, "b")
	require.NoError(t, err)

	_, err = s.follows.FollowByUsername(ctx, a.ID, "ghost")
	assertCode(t, err, models.CodeNotFound)
}

func TestFollowService_AnonymousViewer(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	b := testutil.CreateUser(t, s.db, "b")

	ok, err := s.follows.IsFollowing(ctx, 0, b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assertCode(t, s.follows.Follow(ctx, 0, b.ID), models.CodeUnauthorized)
}

func TestFeedService_FollowScenario(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s.db, "reader")
	a := testutil.CreateUser(t, s.db, "writer")
	other := testutil.CreateUser(t, s.db, "bystander")
	testutil.CreatePosts(t, s.db, other, nil, 3, time.Now().Add(-time.Hour))

	require.NoError(t, s.follows.Follow(ctx, u.ID, a.ID))
	q, err := s.posts.Create(ctx, CreatePostInput{AuthorID: a.ID, Text: "fresh"})
	require.NoError(t, err)

	feed, err := s.feed.FeedFor(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{q.ID}, postIDs(feed.Items))

	require.NoError(t, s.follows.Unfollow(ctx, u.ID, a.ID))

	feed, err = s.feed.FeedFor(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
}

func TestFeedService_ExactlyFollowedAuthors(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, s.db, "reader")
	base := time.Now().Add(-time.Hour)

	followed := map[uint]bool{}
	for i, name := range []string{"w1", "w2", "w3", "w4"} {
		w := testutil.CreateUser(t, s.db, name)
		testutil.CreatePosts(t, s.db, w, nil, 4, base.Add(time.Duration(i)*time.Minute))
		if i%2 == 0 {
			require.NoError(t, s.follows.Follow(ctx, u.ID, w.ID))
			followed[w.ID] = true
		}
	}
	// The reader's own posts never appear in their feed.
	testutil.CreatePosts(t, s.db, u, nil, 2, base)

	feed, err := s.feed.FeedFor(ctx, u.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, feed.Count)
	for _, p := range feed.Items {
		assert.True(t, followed[p.AuthorID], "post by %d is not from a followed author", p.AuthorID)
	}
	for i := 1; i < len(feed.Items); i++ {
		assert.False(t, feed.Items[i].CreatedAt.After(feed.Items[i-1].CreatedAt))
	}

	_, err = s.feed.FeedFor(ctx, 0, 1)
	assertCode(t, err, models.CodeUnauthorized)
}
