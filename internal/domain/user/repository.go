package user

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	gorm "gorm.io/gorm"

	"gnest/internal/infra/pgsql"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByUserName(ctx context.Context, userName string) (*User, error)
	List(ctx context.Context, page, pageSize int) (*pgsql.PageResult[User], error)
}

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, user *User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByUserName(ctx context.Context, userName string) (*User, error) {
	var user User
	err := r.DB.WithContext(ctx).Where("user_name = ?", userName).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, page, pageSize int) (*pgsql.PageResult[User], error) {
	return pgsql.FindPage[User](r.DB.WithContext(ctx), page, pageSize, pgsql.Order("created_at", true))
}

// MemoryRepository keeps users in process. It backs the service when no
// database is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*User)}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.UserName]; ok {
		return ErrUserExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.users[user.UserName] = &cp
	return nil
}

func (r *MemoryRepository) FindByUserName(_ context.Context, userName string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userName]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context, page, pageSize int) (*pgsql.PageResult[User], error) {
	r.mu.RLock()
	all := make([]User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].UserName < all[j].UserName
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	res := pgsql.NewPageResult[User](nil, int64(len(all)), page, pageSize)
	start := (res.Page - 1) * res.PageSize
	if start < len(all) {
		end := start + res.PageSize
		if end > len(all) {
			end = len(all)
		}
		res.List = all[start:end]
	}
	return res, nil
}
