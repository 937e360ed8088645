// Package gormpersistence implements the repository interfaces on top
// of GORM + MySQL.
package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/abhishek9621yadav/chatroom-app/internal/domain"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
)

// GormUserRepository is the GORM implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	if db == nil {
		panic("database connection cannot be nil for GormUserRepository")
	}
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("gorm: find user by id %d: %w", id, err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("gorm: find user by username %q: %w", username, err)
	}
	return &user, nil
}

func (r *GormUserRepository) Save(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save user (id: %d, username: %s): %w", user.ID, user.Username, err)
	}
	return nil
}

func (r *GormUserRepository) RefsByIDs(ctx context.Context, ids []uint) (map[uint]domain.UserRef, error) {
	refs := make(map[uint]domain.UserRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	var users []domain.User
	err := r.db.WithContext(ctx).
		Select("id", "name", "username", "avatar_url").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: load user refs: %w", err)
	}
	for i := range users {
		refs[users[i].ID] = users[i].Ref()
	}
	return refs, nil
}

func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gorm: count users: %w", err)
	}
	return count, nil
}

// SetOnline makes the users table's online flags match exactly the
// given set. Done in one transaction so the sweep never leaves a
// half-applied state visible.
func (r *GormUserRepository) SetOnline(ctx context.Context, onlineIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(onlineIDs) == 0 {
			return tx.Model(&domain.User{}).Where("online = ?", true).
				Update("online", false).Error
		}
		if err := tx.Model(&domain.User{}).
			Where("online = ? AND id NOT IN ?", true, onlineIDs).
			Update("online", false).Error; err != nil {
			return err
		}
		return tx.Model(&domain.User{}).
			Where("online = ? AND id IN ?", false, onlineIDs).
			Update("online", true).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: set online flags: %w", err)
	}
	return nil
}

// isDuplicateEntry reports whether err is a MySQL unique-constraint
// violation (error 1062).
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
