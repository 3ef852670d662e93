// Package queue defines message payloads exchanged over the message broker.
package queue

// Listing activity event kinds.
const (
	ListingCreated     = "listing.created"
	ListingUpdated     = "listing.updated"
	ListingDeactivated = "listing.deactivated"
)

// ListingActivityEvent is published whenever a host creates, updates or
// deactivates a listing. It carries enough information for downstream
// consumers (audit log, notifications, analytics) without querying the
// primary database.
type ListingActivityEvent struct {
	Event         string `json:"event"`
	ListingID     string `json:"listing_id"`
	HostID        string `json:"host_id"`
	Title         string `json:"title"`
	Location      string `json:"location"`
	PricePerNight string `json:"price_per_night"`
	OccurredAt    string `json:"occurred_at"`
}
