package entities

import (
	"fmt"
	"strings"
	"time"
)

// ClaimBucket identifies one of the periodic claim reward categories
type ClaimBucket string

const (
	ClaimBucketHourly  ClaimBucket = "hourly"
	ClaimBucketDaily   ClaimBucket = "daily"
	ClaimBucketMonthly ClaimBucket = "monthly"
)

// ClaimBuckets lists every bucket in display order
var ClaimBuckets = []ClaimBucket{ClaimBucketHourly, ClaimBucketDaily, ClaimBucketMonthly}

// ParseClaimBucket validates a free-form bucket name
func ParseClaimBucket(s string) (ClaimBucket, error) {
	switch ClaimBucket(strings.ToLower(strings.TrimSpace(s))) {
	case ClaimBucketHourly:
		return ClaimBucketHourly, nil
	case ClaimBucketDaily:
		return ClaimBucketDaily, nil
	case ClaimBucketMonthly:
		return ClaimBucketMonthly, nil
	default:
		return "", fmt.Errorf("unknown claim bucket %q", s)
	}
}

// Cooldown returns the fixed time that must pass between two claims
func (b ClaimBucket) Cooldown() time.Duration {
	switch b {
	case ClaimBucketHourly:
		return time.Hour
	case ClaimBucketDaily:
		return 24 * time.Hour
	case ClaimBucketMonthly:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// IsValid reports whether b is one of the known buckets
func (b ClaimBucket) IsValid() bool {
	return b.Cooldown() > 0
}

// String returns the string representation of the bucket
func (b ClaimBucket) String() string {
	return string(b)
}

// LastClaims holds the unix timestamp (seconds) of the last successful claim per bucket.
// Zero means the bucket was never claimed.
type LastClaims struct {
	Hourly  int64 `json:"hourly" bson:"hourly"`
	Daily   int64 `json:"daily" bson:"daily"`
	Monthly int64 `json:"monthly" bson:"monthly"`
}

// Get returns the timestamp stored for a bucket
func (l LastClaims) Get(bucket ClaimBucket) int64 {
	switch bucket {
	case ClaimBucketHourly:
		return l.Hourly
	case ClaimBucketDaily:
		return l.Daily
	case ClaimBucketMonthly:
		return l.Monthly
	default:
		return 0
	}
}

// Set stores the timestamp for a bucket
func (l *LastClaims) Set(bucket ClaimBucket, unix int64) {
	switch bucket {
	case ClaimBucketHourly:
		l.Hourly = unix
	case ClaimBucketDaily:
		l.Daily = unix
	case ClaimBucketMonthly:
		l.Monthly = unix
	}
}

// Account is the per-user ledger record
type Account struct {
	ID        int64      `json:"id"`
	Balance   int64      `json:"balance"`
	Inventory []string   `json:"inventory"` // Reserved, always empty
	Last      LastClaims `json:"last"`
}

// NewAccount returns the zero-valued record a user gets on first reference
func NewAccount(id int64) *Account {
	return &Account{
		ID:        id,
		Inventory: []string{},
	}
}

// CanAfford checks if the account holds at least amount
func (a *Account) CanAfford(amount int64) bool {
	return a.Balance >= amount
}

// Shortfall returns how much is missing to cover amount, or 0 when affordable
func (a *Account) Shortfall(amount int64) int64 {
	if a.CanAfford(amount) {
		return 0
	}
	return amount - a.Balance
}
