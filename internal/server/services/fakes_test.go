package services

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/cache"
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	postsrepo "github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	usersrepo "github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// --- in-memory repositories ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User

	findErr   error
	insertErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Insert(_ context.Context, email, hash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return nil, common.ErrDuplicateEmail
		}
	}
	f.nextID++
	u := &models.User{ID: f.nextID, Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	f.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

type fakePostsRepo struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time
	posts  map[int64]models.Post

	listCalls int
	listErr   error
	insertErr error
	deleteErr error
}

func newFakePostsRepo() *fakePostsRepo {
	return &fakePostsRepo{
		posts: map[int64]models.Post{},
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakePostsRepo) Insert(_ context.Context, userID int64, text string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	p := models.Post{ID: f.nextID, UserID: userID, Text: text, CreatedAt: f.clock}
	f.posts[p.ID] = p
	return &p, nil
}

func (f *fakePostsRepo) FindByIDAndOwner(_ context.Context, id, userID int64) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok || p.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (f *fakePostsRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostsRepo) ListByOwner(_ context.Context, userID int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.Post{}
	for _, p := range f.posts {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b models.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (f *fakePostsRepo) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type fakeRepoManager struct {
	users *fakeUsersRepo
	posts *fakePostsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.users }
func (m *fakeRepoManager) Posts(dbx.DBTX) postsrepo.Repository          { return m.posts }

// --- helpers ---

// newTxDB returns a real database for dbx.WithTx; the fakes ignore it.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// steppingClock starts at a whole second and moves one second per call.
type steppingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	rm       *fakeRepoManager
	users    *UserService
	posts    *PostService
	cache    *PostCache
	tokens   *auth.TokenService
	resolver *auth.Resolver
	clock    *steppingClock
}

func newFixture(t *testing.T, cacheTTL time.Duration) *fixture {
	t.Helper()

	rm := &fakeRepoManager{users: newFakeUsersRepo(), posts: newFakePostsRepo()}
	db := newTxDB(t)

	tokens, err := auth.NewTokenService([]byte("test-secret"), "HS256")
	require.NoError(t, err)

	c, err := cache.New[int64, []models.Post](cacheTTL, cache.WithCopy[[]models.Post](slices.Clone[[]models.Post]))
	require.NoError(t, err)

	clock := newSteppingClock()
	us := NewUserService(db, rm, auth.NewPasswordHasher(4), tokens, time.Hour, logging.Nop{})
	us.now = clock.Now

	return &fixture{
		rm:       rm,
		users:    us,
		posts:    NewPostService(db, rm, c, logging.Nop{}),
		cache:    c,
		tokens:   tokens,
		resolver: auth.NewResolver(tokens, rm.users),
		clock:    clock,
	}
}

// userFor resolves token the way the transports do.
func (f *fixture) userFor(t *testing.T, token string) *models.User {
	t.Helper()
	u, err := f.resolver.Resolve(context.Background(), token, f.clock.Now())
	require.NoError(t, err)
	return u
}
