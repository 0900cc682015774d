package users

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/tadpole/internal/client/models"
	"github.com/dmitrijs2005/tadpole/internal/common"
)

// MemoryRepository keeps records in process memory. Safe for concurrent use.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []*models.User
	byID  map[int64]int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[int64]int)}
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; ok {
		return common.ErrDuplicateIdentifier
	}
	if r.indexOfLogin(user.LoginName, user.ID) >= 0 {
		return common.ErrDuplicateUser
	}

	r.byID[user.ID] = len(r.items)
	r.items = append(r.items, user.Clone())
	return nil
}

func (r *MemoryRepository) GetAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.User, 0, len(r.items))
	for _, u := range r.items {
		result = append(result, *u.Clone())
	}
	return result, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.items[i].Clone(), nil
}

func (r *MemoryRepository) GetByLoginName(_ context.Context, loginName string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOfLogin(loginName, 0)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	return r.items[i].Clone(), nil
}

func (r *MemoryRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[user.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if r.indexOfLogin(user.LoginName, user.ID) >= 0 {
		return common.ErrDuplicateUser
	}
	r.items[i] = user.Clone()
	return nil
}

func (r *MemoryRepository) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}

	r.items = append(r.items[:i], r.items[i+1:]...)
	delete(r.byID, id)
	for j := i; j < len(r.items); j++ {
		r.byID[r.items[j].ID] = j
	}
	return nil
}

func (r *MemoryRepository) MaxID(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var max int64
	for _, u := range r.items {
		if u.ID > max {
			max = u.ID
		}
	}
	return max, nil
}

// indexOfLogin returns the position of the record named loginName whose
// identifier differs from exceptID, or -1. Callers hold the lock.
func (r *MemoryRepository) indexOfLogin(loginName string, exceptID int64) int {
	for i, u := range r.items {
		if u.LoginName == loginName && (exceptID == 0 || u.ID != exceptID) {
			return i
		}
	}
	return -1
}
