package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/Adeel3330/agile-next-sub002/internal/schema"
	"github.com/Adeel3330/agile-next-sub002/internal/utils"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ListQuery holds the common list parameters accepted by every collection endpoint.
type ListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
	Status string `form:"status"`
	Sort   string `form:"sort"`
	Order  string `form:"order"`
}

func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
}

type ListResult[T any] struct {
	Items      []T
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// Pagination converts the result metadata into the response envelope fields.
func (r *ListResult[T]) Pagination() response.Pagination {
	return response.Pagination{Total: r.Total, Page: r.Page, Limit: r.Limit, TotalPages: r.TotalPages}
}

// WriteMeta carries request context into write hooks.
type WriteMeta struct {
	ActorID *uint
	Note    string
}

// SlugOptions enables slug allocation from the Source field when no explicit
// slug is supplied.
type SlugOptions struct {
	Source string
}

// ResourceOptions describes one soft-deletable resource.
type ResourceOptions[T any] struct {
	Name          string // singular, used in error messages
	Mapper        *schema.Mapper
	SearchColumns []string
	DefaultOrder  string
	Slug          *SlugOptions
	Defaults      map[string]interface{}

	BeforeCreate func(tx *gorm.DB, item *T, meta WriteMeta) error
	BeforeUpdate func(tx *gorm.DB, current *T, updates map[string]interface{}, meta WriteMeta) error
	AfterWrite   func(tx *gorm.DB, item *T, created bool, meta WriteMeta) error
}

// ResourceService implements list/get/create/update/delete for a gorm model
// with a DeletedAt column, driven by the resource's field mapper.
type ResourceService[T any] struct {
	db   *gorm.DB
	opts ResourceOptions[T]
}

func NewResourceService[T any](db *gorm.DB, opts ResourceOptions[T]) *ResourceService[T] {
	if opts.DefaultOrder == "" {
		opts.DefaultOrder = "created_at DESC"
	}
	return &ResourceService[T]{db: db, opts: opts}
}

func (s *ResourceService[T]) Name() string {
	return s.opts.Name
}

func (s *ResourceService[T]) Mapper() *schema.Mapper {
	return s.opts.Mapper
}

// List returns one page of non-deleted rows. Extra scopes narrow the query
// (e.g. published-only for public endpoints).
func (s *ResourceService[T]) List(q ListQuery, scopes ...func(*gorm.DB) *gorm.DB) (*ListResult[T], error) {
	q.normalize()

	query := applyScopes(s.db.Model(new(T)), scopes)

	if search := strings.TrimSpace(q.Search); search != "" && len(s.opts.SearchColumns) > 0 {
		conds := make([]string, 0, len(s.opts.SearchColumns))
		args := make([]interface{}, 0, len(s.opts.SearchColumns))
		pattern := "%" + escapeLike(search) + "%"
		for _, col := range s.opts.SearchColumns {
			conds = append(conds, col+" LIKE ? ESCAPE '!'")
			args = append(args, pattern)
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	if q.Status != "" && s.opts.Mapper.Has("status") {
		query = query.Where("status = ?", strings.ToLower(q.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, translateError(err, s.opts.Name)
	}

	if col, ok := s.opts.Mapper.SortColumn(q.Sort); ok {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: col},
			Desc:   !strings.EqualFold(q.Order, "asc"),
		})
	} else {
		query = query.Order(s.opts.DefaultOrder)
	}

	items := make([]T, 0, q.Limit)
	offset := (q.Page - 1) * q.Limit
	if err := query.Order("id DESC").Offset(offset).Limit(q.Limit).Find(&items).Error; err != nil {
		return nil, translateError(err, s.opts.Name)
	}

	return &ListResult[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

// likeEscaper quotes LIKE wildcards with '!', which needs no extra quoting in
// MySQL, Postgres or SQLite string literals.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Get returns a non-deleted row by id.
func (s *ResourceService[T]) Get(id uint, scopes ...func(*gorm.DB) *gorm.DB) (*T, error) {
	var item T
	if err := applyScopes(s.db, scopes).First(&item, id).Error; err != nil {
		return nil, translateError(err, s.opts.Name)
	}
	return &item, nil
}

// GetBySlug returns a non-deleted row by slug.
func (s *ResourceService[T]) GetBySlug(slug string, scopes ...func(*gorm.DB) *gorm.DB) (*T, error) {
	var item T
	if err := applyScopes(s.db, scopes).Where("slug = ?", slug).First(&item).Error; err != nil {
		return nil, translateError(err, s.opts.Name)
	}
	return &item, nil
}

// Create validates the external payload, allocates a slug when configured and
// inserts the row. Slug races are retried with a fresh candidate.
func (s *ResourceService[T]) Create(payload map[string]interface{}, meta WriteMeta) (*T, error) {
	normalized, err := s.opts.Mapper.Normalize(s.withDefaults(payload), true)
	if err != nil {
		return nil, translateError(err, s.opts.Name)
	}

	var created *T
	err = runInTx(s.db, s.opts.Slug != nil, func(tx *gorm.DB) error {
		fields := make(map[string]interface{}, len(normalized)+1)
		for k, v := range normalized {
			fields[k] = v
		}
		if s.opts.Slug != nil {
			slug, err := NextSlug(tx.Model(new(T)), s.slugBase(fields), 0)
			if err != nil {
				return err
			}
			fields["slug"] = slug
		}

		var item T
		if err := schema.DecodeNormalized(fields, &item); err != nil {
			return err
		}
		if s.opts.BeforeCreate != nil {
			if err := s.opts.BeforeCreate(tx, &item, meta); err != nil {
				return err
			}
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		if s.opts.AfterWrite != nil {
			if err := s.opts.AfterWrite(tx, &item, true, meta); err != nil {
				return err
			}
		}
		created = &item
		return nil
	})
	if err != nil {
		return nil, translateError(err, s.opts.Name)
	}
	return created, nil
}

// Update applies a partial external payload to a non-deleted row. Only the
// fields present in the payload change; an explicit slug is re-allocated.
func (s *ResourceService[T]) Update(id uint, payload map[string]interface{}, meta WriteMeta) (*T, error) {
	cols, err := s.opts.Mapper.Columns(payload)
	if err != nil {
		return nil, translateError(err, s.opts.Name)
	}

	var updated *T
	err = runInTx(s.db, s.opts.Slug != nil, func(tx *gorm.DB) error {
		var current T
		if err := tx.First(&current, id).Error; err != nil {
			return err
		}

		updates := make(map[string]interface{}, len(cols)+1)
		for k, v := range cols {
			updates[k] = v
		}
		if s.opts.Slug != nil {
			if v, ok := updates["slug"]; ok {
				base, _ := v.(string)
				if base == "" {
					delete(updates, "slug")
				} else {
					slug, err := NextSlug(tx.Model(new(T)), base, id)
					if err != nil {
						return err
					}
					updates["slug"] = slug
				}
			}
		}
		if s.opts.BeforeUpdate != nil {
			if err := s.opts.BeforeUpdate(tx, &current, updates, meta); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(new(T)).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		var fresh T
		if err := tx.First(&fresh, id).Error; err != nil {
			return err
		}
		if s.opts.AfterWrite != nil && len(updates) > 0 {
			if err := s.opts.AfterWrite(tx, &fresh, false, meta); err != nil {
				return err
			}
		}
		updated = &fresh
		return nil
	})
	if err != nil {
		return nil, translateError(err, s.opts.Name)
	}
	return updated, nil
}

// Delete soft-deletes a row. Deleting an absent or already deleted row is a
// not-found error.
func (s *ResourceService[T]) Delete(id uint) error {
	result := s.db.Delete(new(T), id)
	if result.Error != nil {
		return translateError(result.Error, s.opts.Name)
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound(s.opts.Name + " not found")
	}
	return nil
}

// Count returns the number of non-deleted rows matching the scopes.
func (s *ResourceService[T]) Count(scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var total int64
	if err := applyScopes(s.db.Model(new(T)), scopes).Count(&total).Error; err != nil {
		return 0, translateError(err, s.opts.Name)
	}
	return total, nil
}

func (s *ResourceService[T]) withDefaults(payload map[string]interface{}) map[string]interface{} {
	if len(s.opts.Defaults) == 0 {
		return payload
	}
	out := make(map[string]interface{}, len(payload)+len(s.opts.Defaults))
	for k, v := range s.opts.Defaults {
		out[k] = v
	}
	for k, v := range payload {
		out[k] = v
	}
	return out
}

func (s *ResourceService[T]) slugBase(fields map[string]interface{}) string {
	if explicit, _ := fields["slug"].(string); explicit != "" {
		return explicit
	}
	source, _ := fields[s.opts.Slug.Source].(string)
	return utils.Slugify(source)
}

// runInTx runs fn in a transaction. With retry set, unique violations are
// retried so a fresh slug or version number can be chosen.
func runInTx(db *gorm.DB, retry bool, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !retry || !isUniqueViolation(err) {
			return err
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxWriteAttempts, err)
}

// WithStatus restricts a query to one status value.
func WithStatus(status string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}
}

func applyScopes(db *gorm.DB, scopes []func(*gorm.DB) *gorm.DB) *gorm.DB {
	for _, scope := range scopes {
		db = scope(db)
	}
	return db
}
