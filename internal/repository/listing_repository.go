package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

const listingColumns = `l.id, l.host_id, l.title, l.description, l.location, l.category,
	l.price_per_night, l.bedrooms, l.bathrooms, l.max_guests, l.amenities, l.images,
	l.latitude, l.longitude, l.is_active, l.created_at, l.updated_at`

// ListingRow is a listing joined with the summary fields of its host, used
// by everything that renders listings back to clients.
type ListingRow struct {
	model.Listing
	HostUsername string
	HostEmail    string
	HostAvatar   *string
}

// ListingRepo encapsulates all database queries for the listings table.
type ListingRepo struct{ DB *sql.DB }

func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{DB: db} }

// Create inserts a listing with a fresh UUID and re-selects the row so the
// caller receives DB-generated timestamps.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	l.ID = uuid.NewString()
	amenities, err := json.Marshal(emptyIfNil(l.Amenities))
	if err != nil {
		return err
	}
	images, err := json.Marshal(emptyIfNil(l.Images))
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO listings
		 (id, host_id, title, description, location, category, price_per_night,
		  bedrooms, bathrooms, max_guests, amenities, images, latitude, longitude, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		l.ID, l.HostID, l.Title, l.Description, l.Location, l.Category, l.PricePerNight,
		l.Bedrooms, l.Bathrooms, l.MaxGuests, string(amenities), string(images),
		nullFloat(l.Latitude), nullFloat(l.Longitude), l.IsActive)
	if err != nil {
		return err
	}
	fresh, err := r.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = *fresh
	return nil
}

// GetByID fetches a listing by id regardless of visibility or owner.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM listings l WHERE l.id=? LIMIT 1", id)
	l, err := scanListing(row)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetDetail fetches a listing joined with its host summary.
func (r *ListingRepo) GetDetail(ctx context.Context, id string) (*ListingRow, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+listingColumns+`, u.username, u.email, u.avatar_url
		 FROM listings l JOIN users u ON u.id = l.host_id
		 WHERE l.id=? LIMIT 1`, id)
	return scanListingRow(row)
}

// Update replaces every mutable column of a listing. Handlers load the row,
// merge the request into it and write the merged struct back, so repeated
// identical updates are idempotent (last write wins on concurrent updates).
func (r *ListingRepo) Update(ctx context.Context, l *model.Listing) error {
	amenities, err := json.Marshal(emptyIfNil(l.Amenities))
	if err != nil {
		return err
	}
	images, err := json.Marshal(emptyIfNil(l.Images))
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE listings SET title=?, description=?, location=?, category=?,
		 price_per_night=?, bedrooms=?, bathrooms=?, max_guests=?, amenities=?,
		 images=?, latitude=?, longitude=?, is_active=?
		 WHERE id=?`,
		l.Title, l.Description, l.Location, l.Category, l.PricePerNight,
		l.Bedrooms, l.Bathrooms, l.MaxGuests, string(amenities), string(images),
		nullFloat(l.Latitude), nullFloat(l.Longitude), l.IsActive, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, l.ID); err != nil {
			return err
		}
	}
	return nil
}

// Deactivate soft-deletes a listing: it disappears from public views but
// stays visible to its host.
func (r *ListingRepo) Deactivate(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE listings SET is_active=0 WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanListing(row rowScanner) (*model.Listing, error) {
	var l model.Listing
	var amenities, images []byte
	var lat, lon sql.NullFloat64
	err := row.Scan(
		&l.ID, &l.HostID, &l.Title, &l.Description, &l.Location, &l.Category,
		&l.PricePerNight, &l.Bedrooms, &l.Bathrooms, &l.MaxGuests, &amenities, &images,
		&lat, &lon, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if err := decodeListingJSON(&l, amenities, images); err != nil {
		return nil, err
	}
	if lat.Valid {
		l.Latitude = &lat.Float64
	}
	if lon.Valid {
		l.Longitude = &lon.Float64
	}
	return &l, nil
}

func scanListingRow(row rowScanner) (*ListingRow, error) {
	var lr ListingRow
	var amenities, images []byte
	var lat, lon sql.NullFloat64
	var hostAvatar sql.NullString
	err := row.Scan(
		&lr.ID, &lr.HostID, &lr.Title, &lr.Description, &lr.Location, &lr.Category,
		&lr.PricePerNight, &lr.Bedrooms, &lr.Bathrooms, &lr.MaxGuests, &amenities, &images,
		&lat, &lon, &lr.IsActive, &lr.CreatedAt, &lr.UpdatedAt,
		&lr.HostUsername, &lr.HostEmail, &hostAvatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if err := decodeListingJSON(&lr.Listing, amenities, images); err != nil {
		return nil, err
	}
	if lat.Valid {
		lr.Latitude = &lat.Float64
	}
	if lon.Valid {
		lr.Longitude = &lon.Float64
	}
	if hostAvatar.Valid {
		lr.HostAvatar = &hostAvatar.String
	}
	return &lr, nil
}

func decodeListingJSON(l *model.Listing, amenities, images []byte) error {
	l.Amenities = []string{}
	l.Images = []string{}
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &l.Amenities); err != nil {
			return err
		}
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &l.Images); err != nil {
			return err
		}
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
