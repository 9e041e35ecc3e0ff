package notes

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNoteNotFound = errors.New("note not found")

// ListOptions narrows and orders a user's notes. Order is either "ASC" or
// "DESC", enforced at the boundary.
type ListOptions struct {
	Order       string
	Limit       int
	Offset      int
	TitleFilter string
}

type Repository interface {
	Create(note *Note) error
	GetByID(id uint) (*Note, error)
	List(userID uint, opts ListOptions) ([]Note, error)
	Update(note *Note) error
	Delete(id uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(note *Note) error {
	return r.db.Create(note).Error
}

func (r *repository) GetByID(id uint) (*Note, error) {
	var note Note
	if err := r.db.First(&note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return &note, nil
}

func (r *repository) List(userID uint, opts ListOptions) ([]Note, error) {
	order := "created_at ASC"
	if opts.Order == "DESC" {
		order = "created_at DESC"
	}

	query := r.db.
		Select("id", "title", "content", "created_at", "updated_at").
		Where("user_id = ?", userID).
		Order(order).
		Limit(opts.Limit).
		Offset(opts.Offset)

	if opts.TitleFilter != "" {
		query = query.Where("title ILIKE ?", "%"+opts.TitleFilter+"%")
	}

	var result []Note
	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repository) Update(note *Note) error {
	return r.db.Save(note).Error
}

func (r *repository) Delete(id uint) error {
	return r.db.Delete(&Note{}, id).Error
}
