// Package pending models orders that could not be assigned when placed and
// wait for the retry loop.
package pending

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

var ErrPendingOrderIsNotConstructed = errors.New("PendingOrder must be created via NewPendingOrder or RestorePendingOrder")

// Status of a pending order row.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusAbandoned Status = "abandoned"
)

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusAssigned, StatusAbandoned:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("pending status", fmt.Errorf("unknown status %q", string(s)))
	}
}

// Request keeps the original placement input, still encrypted, so the retry
// loop can replay it. Shop fields are empty for voice orders.
type Request struct {
	UserIDEnc       string   `json:"user_id_enc"`
	UserEmailEnc    string   `json:"user_email"`
	UserPhoneEnc    string   `json:"user_phno_enc"`
	VoiceDocID      string   `json:"order_by_voice_doc_id"`
	VoiceAudioRefID string   `json:"order_by_voice_audio_ref_id"`
	ShopID          string   `json:"shop_id,omitempty"`
	ShopDistrict    string   `json:"shop_district,omitempty"`
	ShopPincode     string   `json:"shop_pincode,omitempty"`
	CurrentLat      *float64 `json:"curr_lat,omitempty"`
	CurrentLon      *float64 `json:"curr_lon,omitempty"`
}

// PendingOrder is one unassigned order waiting for a partner.
type PendingOrder struct {
	orderID   order.ID
	orderType order.Type
	customer  string
	request   Request
	status    Status
	attempts  int
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewPendingOrder enqueues an order. customerID is the decrypted user id
// used for notifications.
func NewPendingOrder(orderID order.ID, orderType order.Type, customerID string, request Request, now time.Time) (*PendingOrder, error) {
	p := &PendingOrder{
		customer:      customerID,
		request:       request,
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}
	if err := errors.Join(p.setOrderID(orderID), p.setType(orderType)); err != nil {
		return nil, err
	}
	return p, nil
}

func RestorePendingOrder(
	orderID order.ID,
	orderType order.Type,
	customerID string,
	request Request,
	status Status,
	attempts int,
	createdAt time.Time,
	updatedAt time.Time,
) (*PendingOrder, error) {
	p := &PendingOrder{
		customer:      customerID,
		request:       request,
		attempts:      attempts,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}
	if err := errors.Join(p.setOrderID(orderID), p.setType(orderType), status.Validate()); err != nil {
		return nil, err
	}
	p.status = status
	return p, nil
}

func (p *PendingOrder) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPendingOrderIsNotConstructed
	}
	return nil
}

func (p *PendingOrder) OrderID() order.ID {
	return p.orderID
}

func (p *PendingOrder) Type() order.Type {
	return p.orderType
}

func (p *PendingOrder) CustomerID() string {
	return p.customer
}

func (p *PendingOrder) Request() Request {
	return p.request
}

func (p *PendingOrder) Status() Status {
	return p.status
}

func (p *PendingOrder) Attempts() int {
	return p.attempts
}

func (p *PendingOrder) CreatedAt() time.Time {
	return p.createdAt
}

func (p *PendingOrder) UpdatedAt() time.Time {
	return p.updatedAt
}

// IsPending reports whether the retry loop should still pick the order up.
func (p *PendingOrder) IsPending() bool {
	return p.status == StatusPending
}

// MarkAssigned records that a retry found a partner.
func (p *PendingOrder) MarkAssigned(now time.Time) error {
	if p.status != StatusPending {
		return errs.NewValueIsInvalidErrorWithCause(
			"pending status", fmt.Errorf("cannot assign a %s order", p.status))
	}
	p.status = StatusAssigned
	p.updatedAt = now
	return nil
}

// RecordFailedAttempt counts one unsuccessful retry.
func (p *PendingOrder) RecordFailedAttempt(now time.Time) {
	p.attempts++
	p.updatedAt = now
}

// ShouldAbandon reports whether maxAttempts retries were used up. Zero means
// the order is never abandoned.
func (p *PendingOrder) ShouldAbandon(maxAttempts int) bool {
	return maxAttempts > 0 && p.attempts >= maxAttempts
}

// Abandon stops retrying the order.
func (p *PendingOrder) Abandon(now time.Time) error {
	if p.status != StatusPending {
		return errs.NewValueIsInvalidErrorWithCause(
			"pending status", fmt.Errorf("cannot abandon a %s order", p.status))
	}
	p.status = StatusAbandoned
	p.updatedAt = now
	return nil
}

func (p *PendingOrder) setOrderID(id order.ID) error {
	parsed, err := order.ParseID(id.String())
	if err != nil {
		return err
	}
	p.orderID = parsed
	return nil
}

func (p *PendingOrder) setType(t order.Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	p.orderType = t
	return nil
}
