package tasks

import (
	"strings"

	"gorm.io/gorm"

	"github.com/shwetank-antino/task-management-api/internal/users"
)

// Store wraps the task queries. The scoped ones take the policy's Scope so
// visibility is enforced in SQL rather than by filtering rows in memory.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(id uint) (*Task, error) {
	var t Task
	if err := s.db.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) Create(t *Task) error {
	return s.db.Create(t).Error
}

func (s *Store) Save(t *Task) error {
	return s.db.Save(t).Error
}

func (s *Store) Delete(t *Task) error {
	return s.db.Delete(t).Error
}

// UserExists resolves an assignee reference against the users table.
func (s *Store) UserExists(id uint) (bool, error) {
	var count int64
	if err := s.db.Model(&users.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

type ListFilter struct {
	Status   string
	Priority string
	Search   string
}

func (s *Store) scoped(scope Scope) *gorm.DB {
	q := s.db.Model(&Task{})
	if !scope.All {
		q = q.Where("created_by_id = ? OR assignee_id = ?", scope.UserID, scope.UserID)
	}
	return q
}

// List returns the tasks visible under scope that match every given filter.
// The search filter is a case-insensitive substring match over title and
// description; LOWER + LIKE keeps it portable between Postgres and the
// sqlite test database.
func (s *Store) List(scope Scope, f ListFilter) ([]Task, error) {
	q := s.scoped(scope)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var tasks []Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

type Stats struct {
	Total          int64 `json:"total"`
	Completed      int64 `json:"completed"`
	Pending        int64 `json:"pending"`
	LowPriority    int64 `json:"lowPriority"`
	MediumPriority int64 `json:"mediumPriority"`
	HighPriority   int64 `json:"highPriority"`
}

// Stats aggregates the visible population in a single SELECT. The COALESCE
// wrappers keep every counter at zero when no rows match.
func (s *Store) Stats(scope Scope) (*Stats, error) {
	var stats Stats
	err := s.scoped(scope).Select(`
		COUNT(*) AS total,
		COALESCE(SUM(CASE WHEN status = 'done' THEN 1 ELSE 0 END), 0) AS completed,
		COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
		COALESCE(SUM(CASE WHEN priority = 'low' THEN 1 ELSE 0 END), 0) AS low_priority,
		COALESCE(SUM(CASE WHEN priority = 'medium' THEN 1 ELSE 0 END), 0) AS medium_priority,
		COALESCE(SUM(CASE WHEN priority = 'high' THEN 1 ELSE 0 END), 0) AS high_priority`).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
