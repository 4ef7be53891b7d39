package repository

import (
	"context"

	"ratehub/internal/api/models"

	"gorm.io/gorm"
)

// TitleFilters narrows down title listings. Zero values mean "no filter".
type TitleFilters struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int
}

type TitleRepository interface {
	Create(ctx context.Context, title *models.Title) error
	Update(ctx context.Context, title *models.Title) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, filters TitleFilters, page, pageSize int) ([]models.Title, int64, error)
	ReplaceGenres(ctx context.Context, titleID int64, genreIDs []int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	return r.db.WithContext(ctx).Omit("Genres", "Category").Create(title).Error
}

func (r *titleRepository) Update(ctx context.Context, title *models.Title) error {
	return r.db.WithContext(ctx).Omit("Genres", "Category").Save(title).Error
}

// Delete removes a title together with its reviews, their comments and the
// genre association rows.
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Title{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("title_id = ?", id).Delete(&models.TitleGenre{}).Error
	})
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, id).Error
	if err != nil {
		return nil, err
	}
	return &title, nil
}

func (r *titleRepository) List(ctx context.Context, filters TitleFilters, page, pageSize int) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Title{})
	if filters.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filters.CategorySlug)
	}
	if filters.GenreSlug != "" {
		query = query.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", filters.GenreSlug)
	}
	if filters.Name != "" {
		query = query.Where("titles.name ILIKE ?", "%"+filters.Name+"%")
	}
	if filters.Year != 0 {
		query = query.Where("titles.year = ?", filters.Year)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Category").
		Preload("Genres").
		Order("titles.name").
		Limit(pageSize).
		Offset(offset).
		Find(&titles).Error
	if err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

// ReplaceGenres swaps the full genre set of a title
func (r *titleRepository) ReplaceGenres(ctx context.Context, titleID int64, genreIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("title_id = ?", titleID).Delete(&models.TitleGenre{}).Error; err != nil {
			return err
		}
		if len(genreIDs) == 0 {
			return nil
		}
		rows := make([]models.TitleGenre, 0, len(genreIDs))
		for _, genreID := range genreIDs {
			rows = append(rows, models.TitleGenre{TitleID: titleID, GenreID: genreID})
		}
		return tx.Create(&rows).Error
	})
}
