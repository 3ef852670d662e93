package model

import "time"

// Listing is a bookable property owned by exactly one host.
// PricePerNight is carried as a decimal string end to end so the value a
// host submits is the value guests read back, without float rounding.
// Amenities and Images are stored as JSON arrays of strings in the DB.
type Listing struct {
	ID            string    // listings.id (UUID)
	HostID        string    // listings.host_id (users.id)
	Title         string    // listings.title
	Description   string    // listings.description
	Location      string    // listings.location
	Category      string    // listings.category (one of Categories or empty)
	PricePerNight string    // listings.price_per_night DECIMAL(10,2)
	Bedrooms      int       // listings.bedrooms
	Bathrooms     float64   // listings.bathrooms DECIMAL(3,1)
	MaxGuests     int       // listings.max_guests
	Amenities     []string  // listings.amenities (JSON)
	Images        []string  // listings.images (JSON)
	Latitude      *float64  // listings.latitude (nullable)
	Longitude     *float64  // listings.longitude (nullable)
	IsActive      bool      // listings.is_active (visibility flag)
	CreatedAt     time.Time // listings.created_at
	UpdatedAt     time.Time // listings.updated_at
}

// Categories is the fixed set of listing categories. The empty string is
// also accepted and means "uncategorized".
var Categories = map[string]bool{
	"mountain_retreats": true,
	"beach_houses":      true,
	"cabins":            true,
	"eco_lodges":        true,
	"luxury_villas":     true,
	"treehouses":        true,
	"farms":             true,
	"urban_lofts":       true,
}
