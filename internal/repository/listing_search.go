package repository

import (
	"context"
	"strings"
)

// ListingSearchQuery defines filters, ordering and pagination for listing
// queries. The zero value means "all active listings, newest first, page 1".
// HostID restricts the base set to one host; IncludeInactive widens it to
// hidden listings and is only ever set for the host's own view.
type ListingSearchQuery struct {
	HostID          string
	IncludeInactive bool

	Category    string
	MinPrice    *float64
	MaxPrice    *float64
	MinBedrooms *int
	MinGuests   *int
	Search      string

	OrderBy  string // price | created_at | bedrooms | max_guests
	Desc     bool
	Page     int
	PageSize int
}

// orderColumns whitelists client-selectable sort fields; anything else falls
// back to creation time so ORDER BY is never built from raw input.
var orderColumns = map[string]string{
	"price":      "l.price_per_night",
	"created_at": "l.created_at",
	"bedrooms":   "l.bedrooms",
	"max_guests": "l.max_guests",
}

// buildListingFilter compiles the optional filters into a WHERE condition and
// its argument list. Filters are AND-combined in a fixed order.
func buildListingFilter(q ListingSearchQuery) (string, []any) {
	where := []string{}
	args := []any{}

	if !q.IncludeInactive {
		where = append(where, "l.is_active = 1")
	}
	if q.HostID != "" {
		where = append(where, "l.host_id = ?")
		args = append(args, q.HostID)
	}
	if q.Category != "" {
		where = append(where, "l.category = ?")
		args = append(args, q.Category)
	}
	if q.MinPrice != nil {
		where = append(where, "l.price_per_night >= ?")
		args = append(args, *q.MinPrice)
	}
	if q.MaxPrice != nil {
		where = append(where, "l.price_per_night <= ?")
		args = append(args, *q.MaxPrice)
	}
	if q.MinBedrooms != nil {
		where = append(where, "l.bedrooms >= ?")
		args = append(args, *q.MinBedrooms)
	}
	if q.MinGuests != nil {
		where = append(where, "l.max_guests >= ?")
		args = append(args, *q.MinGuests)
	}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		where = append(where,
			"(LOWER(l.title) LIKE ? OR LOWER(l.location) LIKE ? OR LOWER(l.description) LIKE ? OR LOWER(l.category) LIKE ?)")
		args = append(args, needle, needle, needle, needle)
	}

	if len(where) == 0 {
		return "1=1", args
	}
	return strings.Join(where, " AND "), args
}

// orderClause resolves the requested sort to a safe ORDER BY expression.
// A secondary sort on id keeps pagination stable across equal values.
func orderClause(q ListingSearchQuery) string {
	col, ok := orderColumns[q.OrderBy]
	if !ok {
		col = "l.created_at"
		q.Desc = true // default: newest first
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	return col + " " + dir + ", l.id ASC"
}

// Search returns one page of listings joined with their host summaries plus
// the total match count for pagination metadata.
func (r *ListingRepo) Search(ctx context.Context, q ListingSearchQuery) ([]ListingRow, int64, error) {
	cond, args := buildListingFilter(q)

	var total int64
	countSQL := "SELECT COUNT(*) FROM listings l WHERE " + cond
	if err := r.DB.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT ` + listingColumns + `, u.username, u.email, u.avatar_url
		FROM listings l
		JOIN users u ON u.id = l.host_id
		WHERE ` + cond + `
		ORDER BY ` + orderClause(q) + `
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]ListingRow, 0, limit)
	for rows.Next() {
		lr, err := scanListingRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *lr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
