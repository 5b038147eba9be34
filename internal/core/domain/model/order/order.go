package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/pkg/errs"
)

var (
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
	ErrShopIsRequired        = errs.NewValueIsRequiredError("shop")
	ErrPartnerIsRequired     = errs.NewValueIsRequiredError("partner")
)

// Order is the aggregate root of one customer order.
type Order struct {
	id          ID
	orderType   Type
	customer    Customer
	shop        *Shop
	destination Destination
	voice       VoiceRef
	partner     *PartnerRef
	status      Status
	savedStatus SavedStatus
	pickupKm    float64
	deliveryKm  float64
	placedAt    time.Time

	isConstructed bool
}

// Snapshot is the flat state of an Order used by repositories and views.
type Snapshot struct {
	ID          ID
	Type        Type
	Customer    Customer
	Shop        *Shop
	Destination Destination
	Voice       VoiceRef
	Partner     *PartnerRef
	Status      Status
	SavedStatus SavedStatus
	PickupKm    float64
	DeliveryKm  float64
	PlacedAt    time.Time
}

// NewOrder creates an order in UnassignedDraft.
func NewOrder(
	id ID,
	orderType Type,
	customer Customer,
	destination Destination,
	voice VoiceRef,
	placedAt time.Time,
) (*Order, error) {
	o := &Order{
		voice:         voice,
		status:        UnassignedDraft,
		savedStatus:   SavedStatusNone,
		placedAt:      placedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setType(orderType),
		customer.Validate(),
		destination.Validate(),
	); err != nil {
		return nil, err
	}
	o.customer = customer
	o.destination = destination

	return o, nil
}

// RestoreOrder rebuilds an order from stored state and checks that the stored
// status agrees with the presence of a shop and a partner.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		voice:         s.Voice,
		savedStatus:   s.SavedStatus,
		pickupKm:      s.PickupKm,
		deliveryKm:    s.DeliveryKm,
		placedAt:      s.PlacedAt,
		isConstructed: true,
	}
	if o.savedStatus == "" {
		o.savedStatus = SavedStatusNone
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setType(s.Type),
		s.Customer.Validate(),
		s.Destination.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.customer = s.Customer
	o.destination = s.Destination
	o.status = s.Status

	if s.Shop != nil {
		if err := s.Shop.Validate(); err != nil {
			return nil, err
		}
		shop := *s.Shop
		o.shop = &shop
	}
	if s.Partner != nil {
		p := *s.Partner
		o.partner = &p
	}

	if o.status > PartnerDecision && o.partner == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s requires an assigned partner", o.status),
		)
	}
	if o.partner != nil && o.status < PartnerDecision {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s cannot have an assigned partner", o.status),
		)
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() ID { return o.id }
func (o *Order) Type() Type { return o.orderType }
func (o *Order) Customer() Customer { return o.customer }
func (o *Order) Destination() Destination { return o.destination }
func (o *Order) Voice() VoiceRef { return o.voice }
func (o *Order) Status() Status { return o.status }
func (o *Order) SavedStatus() SavedStatus { return o.savedStatus }
func (o *Order) PickupDistanceKm() float64 { return o.pickupKm }
func (o *Order) DeliveryDistanceKm() float64 { return o.deliveryKm }
func (o *Order) PlacedAt() time.Time { return o.placedAt }

// Shop returns nil until the shop of a voice order is resolved.
func (o *Order) Shop() *Shop {
	if o.shop == nil {
		return nil
	}
	s := *o.shop
	return &s
}

// Partner returns nil while no partner is assigned.
func (o *Order) Partner() *PartnerRef {
	if o.partner == nil {
		return nil
	}
	p := *o.partner
	return &p
}

// IsPartnerAssigned reports whether the PartnerDecision fork took the assigned branch.
func (o *Order) IsPartnerAssigned() bool {
	return o.partner != nil
}

// Stage returns the display metadata of the current milestone.
func (o *Order) Stage() Stage {
	return StageOf(o.status, o.IsPartnerAssigned())
}

// History returns the timeline up to the current milestone.
func (o *Order) History() []HistoryEntry {
	return HistoryOf(o.status, o.IsPartnerAssigned())
}

func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:          o.id,
		Type:        o.orderType,
		Customer:    o.customer,
		Shop:        o.Shop(),
		Destination: o.destination,
		Voice:       o.voice,
		Partner:     o.Partner(),
		Status:      o.status,
		SavedStatus: o.savedStatus,
		PickupKm:    o.pickupKm,
		DeliveryKm:  o.deliveryKm,
		PlacedAt:    o.placedAt,
	}
}

// SetShop fixes the pickup shop. It is only allowed before acceptance.
func (o *Order) SetShop(shop Shop) error {
	if err := shop.Validate(); err != nil {
		return err
	}
	if o.status >= Accepted {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("shop cannot change once the order is %s", o.status),
		)
	}
	o.shop = &shop
	return nil
}

// Place moves a draft to Placed.
func (o *Order) Place() error {
	next, err := o.status.advanceTo(Placed)
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

// AssignPartner takes the assigned branch of PartnerDecision. It is allowed
// from Placed and from the unassigned branch, which is how pending orders are
// picked up later.
func (o *Order) AssignPartner(p PartnerRef, pickupKm float64, deliveryKm float64) error {
	if p.ID == "" {
		return ErrPartnerIsRequired
	}
	if o.shop == nil {
		return ErrShopIsRequired
	}

	switch {
	case o.status == Placed, o.status == PartnerDecision && o.partner == nil:
	case o.status >= PartnerDecision && o.partner != nil && o.partner.ID == p.ID:
		return ErrTransitionAlreadyApplied
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot assign a partner to a %s order", o.status),
		)
	}

	o.partner = &p
	o.pickupKm = pickupKm
	o.deliveryKm = deliveryKm
	o.status = PartnerDecision
	return nil
}

// AwaitPartner takes the unassigned branch of PartnerDecision.
func (o *Order) AwaitPartner() error {
	switch {
	case o.status == Placed:
		o.status = PartnerDecision
		return nil
	case o.status == PartnerDecision && o.partner == nil:
		return ErrTransitionAlreadyApplied
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("a %s order cannot wait for a partner", o.status),
		)
	}
}

// Accept is called by the assigned partner.
func (o *Order) Accept(partnerID string) error {
	if err := o.checkPartner(partnerID); err != nil {
		return err
	}
	return o.advance(Accepted)
}

func (o *Order) PickUp() error {
	return o.advance(PickedUp)
}

func (o *Order) EnRoute() error {
	return o.advance(EnRoute)
}

func (o *Order) Deliver() error {
	return o.advance(Delivered)
}

// SaveForNext flags the order for the partner's next trip without moving it.
func (o *Order) SaveForNext(partnerID string) error {
	return o.flag(partnerID, SavedStatusSaved)
}

// Decline records that the partner declined. The order keeps its partner and
// status; reassignment is not automatic.
func (o *Order) Decline(partnerID string) error {
	return o.flag(partnerID, SavedStatusDeclined)
}

// CheckPartner verifies that partnerID is the partner assigned to the order.
func (o *Order) CheckPartner(partnerID string) error {
	return o.checkPartner(partnerID)
}

func (o *Order) advance(target Status) error {
	if o.partner == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot move to %s without an assigned partner", target),
		)
	}
	next, err := o.status.advanceTo(target)
	if err != nil {
		return err
	}
	o.status = next
	return nil
}

func (o *Order) flag(partnerID string, saved SavedStatus) error {
	if err := o.checkPartner(partnerID); err != nil {
		return err
	}
	if o.status != PartnerDecision && o.status != Accepted {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("cannot set %s on a %s order", saved, o.status),
		)
	}
	if o.savedStatus == saved {
		return ErrTransitionAlreadyApplied
	}
	o.savedStatus = saved
	return nil
}

func (o *Order) checkPartner(partnerID string) error {
	if o.partner == nil {
		return ErrPartnerIsRequired
	}
	if o.partner.ID != partnerID {
		return errs.NewValueIsInvalidErrorWithCause(
			"partner",
			fmt.Errorf("order %s is assigned to another partner", o.id),
		)
	}
	return nil
}

func (o *Order) setID(id ID) error {
	parsed, err := ParseID(string(id))
	if err != nil {
		return err
	}
	o.id = parsed
	return nil
}

func (o *Order) setType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	o.orderType = t
	return nil
}
