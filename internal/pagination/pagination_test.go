package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []OrderClause
	}{
		{
			name: "empty",
			spec: "",
			want: nil,
		},
		{
			name: "single field with direction",
			spec: "created_at:desc",
			want: []OrderClause{{Field: "created_at", Direction: "desc"}},
		},
		{
			name: "multiple fields",
			spec: "created_at:desc;name:asc",
			want: []OrderClause{
				{Field: "created_at", Direction: "desc"},
				{Field: "name", Direction: "asc"},
			},
		},
		{
			name: "missing direction defaults to asc",
			spec: "name",
			want: []OrderClause{{Field: "name", Direction: "asc"}},
		},
		{
			name: "invalid direction defaults to asc",
			spec: "name:sideways",
			want: []OrderClause{{Field: "name", Direction: "asc"}},
		},
		{
			name: "empty terms skipped",
			spec: ";;created_at:desc;",
			want: []OrderClause{{Field: "created_at", Direction: "desc"}},
		},
		{
			name: "whitespace trimmed",
			spec: " name : DESC ",
			want: []OrderClause{{Field: "name", Direction: "desc"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOrder(tt.spec))
		})
	}
}

func TestBuildMeta(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		per   int
		total int
		want  Meta
	}{
		{
			name:  "first of three pages",
			page:  1, per: 10, total: 25,
			want: Meta{Page: 1, PerPage: 10, Total: 25, TotalPages: 3, HasNext: true, HasPrev: false},
		},
		{
			name:  "middle page",
			page:  2, per: 10, total: 25,
			want: Meta{Page: 2, PerPage: 10, Total: 25, TotalPages: 3, HasNext: true, HasPrev: true},
		},
		{
			name:  "last page",
			page:  3, per: 10, total: 25,
			want: Meta{Page: 3, PerPage: 10, Total: 25, TotalPages: 3, HasNext: false, HasPrev: true},
		},
		{
			name:  "page beyond range",
			page:  9, per: 10, total: 25,
			want: Meta{Page: 9, PerPage: 10, Total: 25, TotalPages: 3, HasNext: false, HasPrev: true},
		},
		{
			name:  "zero total has zero pages",
			page:  1, per: 10, total: 0,
			want: Meta{Page: 1, PerPage: 10, Total: 0, TotalPages: 0, HasNext: false, HasPrev: false},
		},
		{
			name:  "exact multiple",
			page:  2, per: 5, total: 10,
			want: Meta{Page: 2, PerPage: 5, Total: 10, TotalPages: 2, HasNext: false, HasPrev: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildMeta(Params{Page: tt.page, PerPage: tt.per}, tt.total)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParamsNormalize(t *testing.T) {
	p := Params{Page: 0, PerPage: 0}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PerPage)

	p = Params{Page: 3, PerPage: 500}.Normalize()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 100, p.PerPage)
}
