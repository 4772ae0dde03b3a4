package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/gophblog/internal/cache"
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
)

// PostCache holds each user's post list, newest first, keyed by user id.
type PostCache = cache.Cache[int64, []models.Post]

const lockStripes = 64

// PostService lists, creates and deletes the posts of an authenticated user.
//
// Listing is served from the cache when possible. Every write invalidates
// the writer's entry once the change is durable, while holding that user's
// lock; a miss holds the same lock across its query and fill. A list read
// therefore never caches data older than a write that already returned.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *PostCache
	locks       *keyedMutex
	validate    *validator.Validate
	log         logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, c *PostCache, log logging.Logger) *PostService {
	return &PostService{
		db:          db,
		repomanager: m,
		cache:       c,
		locks:       newKeyedMutex(lockStripes),
		validate:    newValidator(),
		log:         log.With("module", "posts"),
	}
}

// List returns the user's posts, newest first. The slice belongs to the
// caller.
func (s *PostService) List(ctx context.Context, user *models.User) ([]models.Post, error) {
	if user == nil {
		return nil, common.ErrorUnauthorized
	}

	if posts, ok := s.cache.Get(user.ID); ok {
		s.log.Debug(ctx, "post list served from cache", "user_id", user.ID)
		return posts, nil
	}

	unlock := s.locks.Lock(user.ID)
	defer unlock()

	// Someone may have filled the entry while we waited.
	if posts, ok := s.cache.Get(user.ID); ok {
		return posts, nil
	}

	posts, err := s.repomanager.Posts(s.db).ListByOwner(ctx, user.ID)
	if err != nil {
		s.log.Error(ctx, "list posts failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	s.cache.Set(user.ID, posts)
	return posts, nil
}

// Create stores a post owned by user and returns its id.
func (s *PostService) Create(ctx context.Context, user *models.User, text string) (int64, error) {
	if user == nil {
		return 0, common.ErrorUnauthorized
	}
	if err := s.validate.Struct(postInput{Text: text}); err != nil {
		return 0, validationError(err)
	}

	unlock := s.locks.Lock(user.ID)
	defer unlock()

	post, err := s.repomanager.Posts(s.db).Insert(ctx, user.ID, text)
	if err != nil {
		s.log.Error(ctx, "create post failed", "user_id", user.ID, "error", err)
		return 0, common.ErrorInternal
	}
	s.cache.Invalidate(user.ID)

	s.log.Info(ctx, "post created", "user_id", user.ID, "post_id", post.ID)
	return post.ID, nil
}

// Delete removes one of user's own posts. Posts that do not exist and posts
// of other users both yield common.ErrorNotFound.
func (s *PostService) Delete(ctx context.Context, user *models.User, postID int64) error {
	if user == nil {
		return common.ErrorUnauthorized
	}

	unlock := s.locks.Lock(user.ID)
	defer unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Posts(tx)
		if _, err := repo.FindByIDAndOwner(ctx, postID, user.ID); err != nil {
			return err
		}
		return repo.Delete(ctx, postID)
	})
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}

	// Dropped on failure too: a failed commit may still have been applied.
	s.cache.Invalidate(user.ID)

	if err != nil {
		s.log.Error(ctx, "delete post failed", "user_id", user.ID, "post_id", postID, "error", err)
		return common.ErrorInternal
	}

	s.log.Info(ctx, "post deleted", "user_id", user.ID, "post_id", postID)
	return nil
}
