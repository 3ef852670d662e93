package repository

import (
	"reflect"
	"testing"
)

func f64(v float64) *float64 { return &v }
func iptr(v int) *int        { return &v }

func TestBuildListingFilterDefault(t *testing.T) {
	cond, args := buildListingFilter(ListingSearchQuery{})
	if cond != "l.is_active = 1" {
		t.Fatalf("cond = %q", cond)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}
}

func TestBuildListingFilterIncludeInactiveOnly(t *testing.T) {
	cond, args := buildListingFilter(ListingSearchQuery{IncludeInactive: true})
	if cond != "1=1" {
		t.Fatalf("cond = %q, want 1=1", cond)
	}
	if len(args) != 0 {
		t.Fatalf("args = %v, want none", args)
	}
}

func TestBuildListingFilterAllFilters(t *testing.T) {
	q := ListingSearchQuery{
		HostID:      "host-1",
		Category:    "cabins",
		MinPrice:    f64(50),
		MaxPrice:    f64(300),
		MinBedrooms: iptr(2),
		MinGuests:   iptr(4),
		Search:      "Lake",
	}
	cond, args := buildListingFilter(q)

	want := "l.is_active = 1 AND l.host_id = ? AND l.category = ? AND " +
		"l.price_per_night >= ? AND l.price_per_night <= ? AND l.bedrooms >= ? AND l.max_guests >= ? AND " +
		"(LOWER(l.title) LIKE ? OR LOWER(l.location) LIKE ? OR LOWER(l.description) LIKE ? OR LOWER(l.category) LIKE ?)"
	if cond != want {
		t.Fatalf("cond = %q\nwant   %q", cond, want)
	}

	wantArgs := []any{"host-1", "cabins", 50.0, 300.0, 2, 4, "%lake%", "%lake%", "%lake%", "%lake%"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("args = %v, want %v", args, wantArgs)
	}
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		name string
		q    ListingSearchQuery
		want string
	}{
		{"default", ListingSearchQuery{}, "l.created_at DESC, l.id ASC"},
		{"price asc", ListingSearchQuery{OrderBy: "price"}, "l.price_per_night ASC, l.id ASC"},
		{"price desc", ListingSearchQuery{OrderBy: "price", Desc: true}, "l.price_per_night DESC, l.id ASC"},
		{"bedrooms", ListingSearchQuery{OrderBy: "bedrooms"}, "l.bedrooms ASC, l.id ASC"},
		{"guests", ListingSearchQuery{OrderBy: "max_guests"}, "l.max_guests ASC, l.id ASC"},
		{"unknown falls back", ListingSearchQuery{OrderBy: "password_hash"}, "l.created_at DESC, l.id ASC"},
		{"injection attempt falls back", ListingSearchQuery{OrderBy: "id; DROP TABLE listings"}, "l.created_at DESC, l.id ASC"},
	}
	for _, tc := range cases {
		if got := orderClause(tc.q); got != tc.want {
			t.Fatalf("%s: orderClause = %q, want %q", tc.name, got, tc.want)
		}
	}
}
