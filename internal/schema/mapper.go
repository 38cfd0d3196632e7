// Package schema declares, per resource, how external camelCase JSON fields map
// onto internal snake_case columns, and how raw values are cleaned and validated
// on the way in. Read and write paths consume a Mapper generically instead of
// translating field names by hand in every handler.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Transform converts a raw decoded JSON value into the value stored in the column.
type Transform func(v interface{}) (interface{}, error)

// Field maps one external JSON name to one column.
type Field struct {
	JSON      string
	Column    string
	Transform Transform
	Rules     string // validator tags applied to the transformed, non-empty value
	Required  bool
	// NoBlank runs Rules on empty values too, so "" cannot bypass them.
	NoBlank bool
}

// Req returns a copy of the field that must be present and non-empty on create
// and may never be blanked on update.
func (f Field) Req() Field {
	f.Required = true
	return f
}

// AllowBlank returns a copy of the field that accepts "" without checking Rules.
func (f Field) AllowBlank() Field {
	f.NoBlank = false
	return f
}

// FieldError reports a single invalid input field by its external name.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Reason
}

// Mapper is the mapping table of one resource.
type Mapper struct {
	fields   []Field
	byJSON   map[string]Field
	byColumn map[string]Field
	sortable map[string]string
}

// New builds a mapper. A field without a column gets the snake_case form of its
// JSON name; a field without a transform stores the value untouched.
func New(fields ...Field) *Mapper {
	m := &Mapper{
		byJSON:   make(map[string]Field, len(fields)),
		byColumn: make(map[string]Field, len(fields)),
		sortable: map[string]string{
			"id":        "id",
			"createdAt": "created_at",
			"updatedAt": "updated_at",
		},
	}
	for _, f := range fields {
		if f.Column == "" {
			f.Column = ToSnake(f.JSON)
		}
		if f.Transform == nil {
			f.Transform = Identity
		}
		m.fields = append(m.fields, f)
		m.byJSON[f.JSON] = f
		m.byColumn[f.Column] = f
		m.sortable[f.JSON] = f.Column
	}
	return m
}

// Sortable registers extra read-only fields (e.g. publishedAt) usable in ?sort=.
func (m *Mapper) Sortable(jsonName, column string) *Mapper {
	m.sortable[jsonName] = column
	return m
}

// Has reports whether the resource declares the external field.
func (m *Mapper) Has(jsonName string) bool {
	_, ok := m.byJSON[jsonName]
	return ok
}

// Column translates an external field name to its column.
func (m *Mapper) Column(jsonName string) (string, bool) {
	f, ok := m.byJSON[jsonName]
	return f.Column, ok
}

// JSONName translates a column back to its external field name.
func (m *Mapper) JSONName(column string) (string, bool) {
	f, ok := m.byColumn[column]
	return f.JSON, ok
}

// SortColumn translates a ?sort= value; unknown names are rejected.
func (m *Mapper) SortColumn(jsonName string) (string, bool) {
	col, ok := m.sortable[jsonName]
	return col, ok
}

// Normalize cleans and validates the declared fields present in payload and
// returns them under their external names. Undeclared keys are dropped.
func (m *Mapper) Normalize(payload map[string]interface{}, create bool) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(payload))
	for _, f := range m.fields {
		raw, present := payload[f.JSON]
		if !present {
			if create && f.Required {
				return nil, &FieldError{Field: f.JSON, Reason: "is required"}
			}
			continue
		}

		v, err := f.Transform(raw)
		if err != nil {
			return nil, &FieldError{Field: f.JSON, Reason: err.Error()}
		}
		if isEmpty(v) {
			if f.Required {
				return nil, &FieldError{Field: f.JSON, Reason: "is required"}
			}
			if !f.NoBlank {
				out[f.JSON] = v
				continue
			}
		}
		if f.Rules != "" {
			if err := validate.Var(v, f.Rules); err != nil {
				return nil, ruleError(f.JSON, err)
			}
		}
		out[f.JSON] = v
	}
	return out, nil
}

// Columns normalizes an update payload and renames it to column names, ready
// for a partial gorm Updates call.
func (m *Mapper) Columns(payload map[string]interface{}) (map[string]interface{}, error) {
	normalized, err := m.Normalize(payload, false)
	if err != nil {
		return nil, err
	}
	cols := make(map[string]interface{}, len(normalized))
	for name, v := range normalized {
		cols[m.byJSON[name].Column] = v
	}
	return cols, nil
}

// Decode normalizes a create payload and decodes it into dst, whose json tags
// must use the same external names.
func (m *Mapper) Decode(payload map[string]interface{}, dst interface{}) error {
	normalized, err := m.Normalize(payload, true)
	if err != nil {
		return err
	}
	return DecodeNormalized(normalized, dst)
}

// DecodeNormalized decodes an already normalized payload into dst.
func DecodeNormalized(normalized map[string]interface{}, dst interface{}) error {
	raw, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

// ToSnake converts a camelCase name into snake_case ("metaTitle" → "meta_title").
func ToSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ruleError(field string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &FieldError{Field: field, Reason: "is invalid"}
	}
	fe := verrs[0]
	isText := fe.Kind() == reflect.String

	var reason string
	switch fe.Tag() {
	case "email":
		reason = "must be a valid email address"
	case "url", "http_url":
		reason = "must be a valid URL"
	case "max":
		if isText {
			reason = fmt.Sprintf("must be at most %s characters", fe.Param())
		} else {
			reason = "must be at most " + fe.Param()
		}
	case "min":
		if isText {
			reason = fmt.Sprintf("must be at least %s characters", fe.Param())
		} else {
			reason = "must be at least " + fe.Param()
		}
	case "oneof":
		reason = "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		reason = "must be greater than " + fe.Param()
	case "gte":
		reason = "must be greater than or equal to " + fe.Param()
	case "lte":
		reason = "must be less than or equal to " + fe.Param()
	case "slug":
		reason = "must contain only lowercase letters, digits and hyphens"
	case "phone":
		reason = "must be a valid phone number"
	default:
		reason = "is invalid"
	}
	return &FieldError{Field: field, Reason: reason}
}
