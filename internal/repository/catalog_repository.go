package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avrentops/rentalctl/internal/domain"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
)

// CatalogRepository manages the category tree the equipment hangs off.
type CatalogRepository interface {
	ListCategories() ([]domain.Category, error)
	FindCategory(id string) (*domain.Category, error)
	CreateCategory(c *domain.Category) error
	UpdateCategory(c *domain.Category) error
	DeleteCategory(id string) error

	ListSubcategories(categoryID string) ([]domain.Subcategory, error)
	FindSubcategory(id string) (*domain.Subcategory, error)
	CreateSubcategory(s *domain.Subcategory) error
	UpdateSubcategory(s *domain.Subcategory) error
	DeleteSubcategory(id string) error
}

type GormCatalogRepository struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) CatalogRepository { return &GormCatalogRepository{db: db} }

func (r *GormCatalogRepository) ListCategories() ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.Preload("Subcategories").Order("name ASC").Find(&categories).Error
	return categories, record("category", "list", err, nil)
}

func (r *GormCatalogRepository) FindCategory(id string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.Preload("Subcategories").Where("id = ?", id).First(&c).Error
	if err := record("category", "find", err, ErrCategoryNotFound); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormCatalogRepository) CreateCategory(c *domain.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return record("category", "create", r.db.Create(c).Error, nil)
}

func (r *GormCatalogRepository) UpdateCategory(c *domain.Category) error {
	return record("category", "update", r.db.Save(c).Error, nil)
}

func (r *GormCatalogRepository) DeleteCategory(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&domain.Subcategory{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
	if errors.Is(err, ErrCategoryNotFound) {
		return record("category", "delete", gorm.ErrRecordNotFound, ErrCategoryNotFound)
	}
	return record("category", "delete", err, nil)
}

func (r *GormCatalogRepository) ListSubcategories(categoryID string) ([]domain.Subcategory, error) {
	var subcategories []domain.Subcategory
	q := r.db.Order("name ASC")
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	err := q.Find(&subcategories).Error
	return subcategories, record("subcategory", "list", err, nil)
}

func (r *GormCatalogRepository) FindSubcategory(id string) (*domain.Subcategory, error) {
	var s domain.Subcategory
	err := r.db.Where("id = ?", id).First(&s).Error
	if err := record("subcategory", "find", err, ErrSubcategoryNotFound); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormCatalogRepository) CreateSubcategory(s *domain.Subcategory) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return record("subcategory", "create", r.db.Create(s).Error, nil)
}

func (r *GormCatalogRepository) UpdateSubcategory(s *domain.Subcategory) error {
	return record("subcategory", "update", r.db.Save(s).Error, nil)
}

func (r *GormCatalogRepository) DeleteSubcategory(id string) error {
	res := r.db.Where("id = ?", id).Delete(&domain.Subcategory{})
	if err := record("subcategory", "delete", res.Error, nil); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return ErrSubcategoryNotFound
	}
	return nil
}
