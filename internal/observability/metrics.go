package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// PostsWritten counts successful post writes by kind (create, edit).
	PostsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_posts_written_total",
		Help: "Total number of posts created or edited",
	}, []string{"kind"})

	// CommentsCreated counts comments left on posts.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_comments_created_total",
		Help: "Total number of comments created",
	})

	// FollowChanges counts follow graph mutations by action (follow, unfollow).
	FollowChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_follow_changes_total",
		Help: "Total number of follow and unfollow operations",
	}, []string{"action"})

	// PageCacheLookups counts index page cache lookups by result (hit, miss).
	PageCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yatube_page_cache_lookups_total",
		Help: "Index page cache lookups by result",
	}, []string{"result"})

	// DeniedEdits counts edit attempts rejected because the actor is not the author.
	DeniedEdits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yatube_denied_edits_total",
		Help: "Total number of post edits denied to non-authors",
	})
)
