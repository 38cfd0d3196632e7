package services

import (
	"github.com/Adeel3330/agile-next-sub002/internal/utils"
	"gorm.io/gorm"
)

// fallbackSlug is used when a title has no alphanumeric characters.
const fallbackSlug = "item"

// NextSlug returns the smallest free slug among base, base-1, base-2, ... in the
// non-deleted rows of query's model, ignoring the row excludeID.
func NextSlug(query *gorm.DB, base string, excludeID uint) (string, error) {
	if base == "" {
		base = fallbackSlug
	}

	q := query.Where("slug = ? OR slug LIKE ?", base, base+"-%")
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var taken []string
	if err := q.Pluck("slug", &taken).Error; err != nil {
		return "", err
	}
	return utils.NextFreeSlug(base, taken), nil
}
