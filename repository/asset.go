package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pastvault/asset-service/entity"
	"gorm.io/gorm"
)

type AssetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// SearchParams captures the list filters. MineOnly bypasses the visibility
// filter entirely and returns all of the viewer's own records; otherwise the
// result is the viewer's own records plus everyone's public ones.
type SearchParams struct {
	ViewerID uuid.UUID
	MineOnly bool
	Tags     []string
	Search   string
	Page     int
	Limit    int
}

// TagCount is one entry of the per-owner top-tags ranking.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// OwnerStats aggregates one owner's records.
type OwnerStats struct {
	TotalImages    int64      `json:"totalImages"`
	PublicImages   int64      `json:"publicImages"`
	PrivateImages  int64      `json:"privateImages"`
	TotalStorage   int64      `json:"totalStorage"`
	TotalStorageMB string     `json:"totalStorageMB"`
	TopTags        []TagCount `json:"topTags"`
}

func (r *AssetRepository) Create(asset *entity.Asset) error {
	return r.db.Create(asset).Error
}

func (r *AssetRepository) FindByID(id uuid.UUID) (*entity.Asset, error) {
	var asset entity.Asset
	err := r.db.Where("id = ?", id).First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// Search applies visibility, tag and free-text filters, newest first, and
// returns the page plus the unpaginated total.
func (r *AssetRepository) Search(params SearchParams) ([]entity.Asset, int64, error) {
	query := r.db.Model(&entity.Asset{})

	if params.MineOnly {
		query = query.Where("owner_id = ?", params.ViewerID)
	} else {
		query = query.Where("owner_id = ? OR is_public = ?", params.ViewerID, true)
	}

	if len(params.Tags) > 0 {
		// Any-of match: the record's tag set intersects the requested set.
		query = query.Where(
			"EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS t(tag) WHERE t.tag IN ?)",
			params.Tags,
		)
	}

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (params.Page - 1) * params.Limit

	var assets []entity.Asset
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(params.Limit).
		Find(&assets).Error
	if err != nil {
		return nil, 0, err
	}

	return assets, total, nil
}

func (r *AssetRepository) Update(asset *entity.Asset) error {
	return r.db.Save(asset).Error
}

func (r *AssetRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.Asset{}, "id = ?", id).Error
}

// IncrementViews bumps the view counter with a single SQL expression; the
// column never goes backwards but concurrent HTTP reads of the record may
// still observe stale values.
func (r *AssetRepository) IncrementViews(id uuid.UUID) error {
	return r.db.Model(&entity.Asset{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}

func (r *AssetRepository) IncrementDownloads(id uuid.UUID) error {
	return r.db.Model(&entity.Asset{}).
		Where("id = ?", id).
		Update("downloads", gorm.Expr("downloads + 1")).Error
}

// StatsByOwner computes the per-owner statistics: record counts split by
// visibility, total stored bytes, and the ten most frequent tags.
func (r *AssetRepository) StatsByOwner(ownerID uuid.UUID) (*OwnerStats, error) {
	stats := &OwnerStats{TopTags: []TagCount{}}

	row := struct {
		Total   int64
		Public  int64
		Private int64
		Storage int64
	}{}

	err := r.db.Model(&entity.Asset{}).
		Select(
			"COUNT(*) AS total, "+
				"COUNT(*) FILTER (WHERE is_public) AS public, "+
				"COUNT(*) FILTER (WHERE NOT is_public) AS private, "+
				"COALESCE(SUM(size), 0) AS storage",
		).
		Where("owner_id = ?", ownerID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats.TotalImages = row.Total
	stats.PublicImages = row.Public
	stats.PrivateImages = row.Private
	stats.TotalStorage = row.Storage
	stats.TotalStorageMB = fmt.Sprintf("%.2f", float64(row.Storage)/(1024*1024))

	err = r.db.Raw(
		`SELECT t.tag AS tag, COUNT(*) AS count
		 FROM assets, jsonb_array_elements_text(tags) AS t(tag)
		 WHERE owner_id = ?
		 GROUP BY t.tag
		 ORDER BY count DESC, tag ASC
		 LIMIT 10`,
		ownerID,
	).Scan(&stats.TopTags).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
