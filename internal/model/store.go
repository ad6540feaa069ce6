package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type BranchType string

const (
	BranchMobile BranchType = "mobile"
	BranchFixed  BranchType = "fixed"
)

func ParseBranchType(s string) (BranchType, error) {
	switch BranchType(strings.ToLower(strings.TrimSpace(s))) {
	case BranchMobile:
		return BranchMobile, nil
	case BranchFixed:
		return BranchFixed, nil
	default:
		return "", fmt.Errorf("unknown branch type %q (expected mobile|fixed)", s)
	}
}

// CreateStorePayload is the legacy /Store/Create body.
type CreateStorePayload struct {
	BranchType   string `json:"branch_type"`
	MerchantType string `json:"merchant_type"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
}

type CreateMerchantPayload struct {
	BranchType   BranchType `json:"branch_type"`
	MerchantType []int      `json:"merchant_type"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
}

// StoreForm is the raw create-store form before it becomes a merchant payload.
type StoreForm struct {
	Name    string
	Type    string
	Address string
	Phone   string
	Format  string
}

var (
	ErrStoreNameRequired  = errors.New("store name is required")
	ErrStoreTypeRequired  = errors.New("store type is required")
	ErrStorePhoneRequired = errors.New("contact phone is required")
)

// MerchantPayload validates the form and builds the /Merchant body.
func (f StoreForm) MerchantPayload() (CreateMerchantPayload, error) {
	if strings.TrimSpace(f.Name) == "" {
		return CreateMerchantPayload{}, ErrStoreNameRequired
	}
	if strings.TrimSpace(f.Type) == "" {
		return CreateMerchantPayload{}, ErrStoreTypeRequired
	}
	if strings.TrimSpace(f.Phone) == "" {
		return CreateMerchantPayload{}, ErrStorePhoneRequired
	}
	format := f.Format
	if strings.TrimSpace(format) == "" {
		format = string(BranchMobile)
	}
	bt, err := ParseBranchType(format)
	if err != nil {
		return CreateMerchantPayload{}, err
	}
	return CreateMerchantPayload{
		BranchType:   bt,
		MerchantType: []int{1},
		Name:         strings.TrimSpace(f.Name),
		Phone:        strings.TrimSpace(f.Phone),
	}, nil
}

type TimeSlot struct {
	ID              string `json:"id,omitempty"`
	IntervalMinutes int    `json:"interval_minutes"`
	Capacity        int    `json:"capacity"`
	StartAt         string `json:"start_at"`
	EndAt           string `json:"end_at"`
}

const clockLayout = "15:04:05"

// Validate checks the HH:mm:ss bounds and positive sizes.
func (t TimeSlot) Validate() error {
	if t.IntervalMinutes <= 0 {
		return errors.New("interval_minutes must be positive")
	}
	if t.Capacity <= 0 {
		return errors.New("capacity must be positive")
	}
	start, err := time.Parse(clockLayout, t.StartAt)
	if err != nil {
		return fmt.Errorf("start_at: expected HH:mm:ss: %w", err)
	}
	end, err := time.Parse(clockLayout, t.EndAt)
	if err != nil {
		return fmt.Errorf("end_at: expected HH:mm:ss: %w", err)
	}
	if !end.After(start) {
		return errors.New("end_at must be after start_at")
	}
	return nil
}

// QueueSettings mirrors the queue management screen.
type QueueSettings struct {
	Open          bool
	MaxQueue      int
	RoundsPerHour int
	StartAt       string
	EndAt         string
}

func (q QueueSettings) Validate() error {
	if q.MaxQueue < 1 || q.MaxQueue > 10 {
		return fmt.Errorf("max queue must be between 1 and 10, got %d", q.MaxQueue)
	}
	if q.RoundsPerHour < 1 || q.RoundsPerHour > 4 {
		return fmt.Errorf("rounds per hour must be between 1 and 4, got %d", q.RoundsPerHour)
	}
	return nil
}

// TimeSlot converts the settings to the time-slot payload: each round lasts
// 60/rounds minutes and admits MaxQueue orders.
func (q QueueSettings) TimeSlot() (TimeSlot, error) {
	if err := q.Validate(); err != nil {
		return TimeSlot{}, err
	}
	ts := TimeSlot{
		IntervalMinutes: 60 / q.RoundsPerHour,
		Capacity:        q.MaxQueue,
		StartAt:         q.StartAt,
		EndAt:           q.EndAt,
	}
	if err := ts.Validate(); err != nil {
		return TimeSlot{}, err
	}
	return ts, nil
}
