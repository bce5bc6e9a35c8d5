package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avrentops/rentalctl/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

type UserListQuery struct {
	PageRequest
	Search   string
	Role     string
	IsActive *bool
}

type UserRepository interface {
	FindByID(id string) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	Create(user *domain.User) error
	Update(user *domain.User) error
	Delete(id string) error
	ListPaged(query UserListQuery) (PageResult[domain.User], error)
	Count() (int64, error)
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err := record("user", "find_by_id", err, ErrUserNotFound); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err := record("user", "find_by_email", err, ErrUserNotFound); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) Create(user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return record("user", "create", r.db.Create(user).Error, nil)
}

func (r *GormUserRepository) Update(user *domain.User) error {
	return record("user", "update", r.db.Save(user).Error, nil)
}

func (r *GormUserRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&domain.User{})
	if err := record("user", "delete", res.Error, nil); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) ListPaged(query UserListQuery) (PageResult[domain.User], error) {
	req := normalizePageRequest(query.PageRequest)
	result := PageResult[domain.User]{Page: req.Page, PageSize: req.PageSize}

	base := r.db.Model(&domain.User{})
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		base = base.Where("email LIKE ? OR full_name LIKE ?", pattern, pattern)
	}
	if query.Role != "" {
		base = base.Where("role = ?", query.Role)
	}
	if query.IsActive != nil {
		base = base.Where("is_active = ?", *query.IsActive)
	}

	if err := base.Session(&gorm.Session{}).Count(&result.Total).Error; err != nil {
		return PageResult[domain.User]{}, record("user", "list_paged", err, nil)
	}
	offset := (req.Page - 1) * req.PageSize
	err := base.Order("full_name ASC").Offset(offset).Limit(req.PageSize).Find(&result.Items).Error
	if err := record("user", "list_paged", err, nil); err != nil {
		return PageResult[domain.User]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, req.PageSize)
	return result, nil
}

func (r *GormUserRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&domain.User{}).Count(&n).Error
	return n, record("user", "count", err, nil)
}
