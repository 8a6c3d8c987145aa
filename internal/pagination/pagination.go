// Package pagination applies keyword search, ordering and page windows to
// gorm queries and computes page metadata.
package pagination

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Params are the pagination inputs parsed from a request.
type Params struct {
	Page    int
	PerPage int
	Keyword string
	// Order is a compact order spec: "field:direction;field2:direction2".
	// Unknown fields are skipped; unknown directions default to ascending.
	Order string
}

// Normalize clamps page and per-page into their valid ranges.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = 10
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
	return p
}

// Meta is the page metadata returned alongside a page of results.
type Meta struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// OrderClause is one parsed ordering term.
type OrderClause struct {
	Field     string
	Direction string // "asc" or "desc"
}

// ParseOrder parses an order spec into clauses. Empty terms are skipped;
// a missing or invalid direction falls back to ascending.
func ParseOrder(spec string) []OrderClause {
	if spec == "" {
		return nil
	}

	var clauses []OrderClause
	for _, part := range strings.Split(spec, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field := part
		direction := "asc"
		if idx := strings.LastIndex(part, ":"); idx >= 0 {
			field = strings.TrimSpace(part[:idx])
			dir := strings.ToLower(strings.TrimSpace(part[idx+1:]))
			if dir == "desc" {
				direction = "desc"
			}
		}
		if field == "" {
			continue
		}
		clauses = append(clauses, OrderClause{Field: field, Direction: direction})
	}
	return clauses
}

// BuildMeta computes page metadata from the filtered total.
func BuildMeta(p Params, total int) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + p.PerPage - 1) / p.PerPage
	}
	return Meta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    totalPages > 0 && p.Page < totalPages,
		HasPrev:    totalPages > 0 && p.Page > 1,
	}
}

// Find runs q with keyword search, ordering and a page window applied, and
// scans the page into dest (a pointer to a slice).
//
// searchFields are the columns the keyword OR-matches against with a
// case-insensitive substring. orderable maps order-spec field names to the
// columns they are allowed to sort by; unknown names are skipped. The total
// is counted from the filtered but unordered, unpaginated statement, so the
// metadata reflects keyword filtering and is independent of ordering.
func Find(ctx context.Context, q *gorm.DB, p Params, searchFields []string, orderable map[string]string, dest any) (Meta, error) {
	p = p.Normalize()
	q = q.WithContext(ctx)

	if p.Keyword != "" && len(searchFields) > 0 {
		pattern := "%" + p.Keyword + "%"
		filtered := q.Session(&gorm.Session{NewDB: true})
		for i, field := range searchFields {
			if i == 0 {
				filtered = filtered.Where(field+" ILIKE ?", pattern)
			} else {
				filtered = filtered.Or(field+" ILIKE ?", pattern)
			}
		}
		q = q.Where(filtered)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Meta{}, err
	}

	for _, clause := range ParseOrder(p.Order) {
		column, ok := orderable[clause.Field]
		if !ok {
			continue
		}
		q = q.Order(column + " " + clause.Direction)
	}

	offset := (p.Page - 1) * p.PerPage
	if err := q.Offset(offset).Limit(p.PerPage).Find(dest).Error; err != nil {
		return Meta{}, err
	}

	return BuildMeta(p, int(total)), nil
}
