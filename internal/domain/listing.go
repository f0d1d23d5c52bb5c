package domain

import "time"

// ListingStatus enumerates moderation states for rental listings.
type ListingStatus string

const (
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusApproved ListingStatus = "approved"
	ListingStatusRejected ListingStatus = "rejected"
)

// Valid reports whether the status is a known value.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusPending, ListingStatusApproved, ListingStatusRejected:
		return true
	}
	return false
}

// Decided reports whether the status is terminal.
func (s ListingStatus) Decided() bool {
	return s == ListingStatusApproved || s == ListingStatusRejected
}

// Listing is the aggregate for rental submissions awaiting moderation.
//
// RejectionReason is non-nil only while Status is rejected; AdminID stays
// nil until a moderation decision is recorded.
type Listing struct {
	ID              string
	Title           string
	Description     string
	Location        string
	Category        string
	Price           float64
	Status          ListingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
	UserID          string
	Username        string
	AdminID         *string
	RejectionReason *string
}

// Clone returns a deep copy so store snapshots never alias live state.
func (l *Listing) Clone() *Listing {
	cp := *l
	if l.AdminID != nil {
		v := *l.AdminID
		cp.AdminID = &v
	}
	if l.RejectionReason != nil {
		v := *l.RejectionReason
		cp.RejectionReason = &v
	}
	return &cp
}
