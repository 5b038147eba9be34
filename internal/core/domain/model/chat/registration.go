package chat

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

var (
	ErrRegistrationIsNotConstructed = errors.New("Registration must be created via NewRegistration or RestoreRegistration")
	ErrConnectionIDIsRequired       = errs.NewValueIsRequiredError("connection id")
)

// Connection is the live state of one side.
type Connection struct {
	Connected    bool
	ConnectionID string
}

func offline() Connection {
	return Connection{ConnectionID: NoConnection}
}

// Registration maps an order chat to its two participants.
type Registration struct {
	chatID          order.ID
	orderType       order.Type
	customerID      string
	partnerID       string
	partnerAssigned bool
	orderSide       Connection
	deliverySide    Connection

	isConstructed bool
}

// Snapshot is the flat form of a Registration.
type Snapshot struct {
	ChatID          order.ID
	OrderType       order.Type
	CustomerID      string
	PartnerID       string
	PartnerAssigned bool
	OrderSide       Connection
	DeliverySide    Connection
}

// NewRegistration creates a registration with both sides offline. partner is
// nil while the order waits for assignment.
func NewRegistration(chatID order.ID, orderType order.Type, customerID string, partner *order.PartnerRef) (*Registration, error) {
	r := &Registration{
		customerID:    strings.TrimSpace(customerID),
		orderSide:     offline(),
		deliverySide:  offline(),
		isConstructed: true,
	}

	var errCustomer error
	if r.customerID == "" {
		errCustomer = errs.NewValueIsRequiredError("customer id")
	}
	if err := errors.Join(r.setChatID(chatID), r.setType(orderType), errCustomer); err != nil {
		return nil, err
	}
	if partner != nil {
		r.AssignPartner(partner.ID)
	}
	return r, nil
}

func RestoreRegistration(s Snapshot) (*Registration, error) {
	r, err := NewRegistration(s.ChatID, s.OrderType, s.CustomerID, nil)
	if err != nil {
		return nil, err
	}
	r.partnerID = s.PartnerID
	r.partnerAssigned = s.PartnerAssigned && s.PartnerID != ""
	r.orderSide = normalize(s.OrderSide)
	r.deliverySide = normalize(s.DeliverySide)
	return r, nil
}

func (r *Registration) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRegistrationIsNotConstructed
	}
	return nil
}

func (r *Registration) ChatID() order.ID {
	return r.chatID
}

func (r *Registration) OrderType() order.Type {
	return r.orderType
}

func (r *Registration) CustomerID() string {
	return r.customerID
}

func (r *Registration) PartnerID() string {
	return r.partnerID
}

func (r *Registration) IsPartnerAssigned() bool {
	return r.partnerAssigned
}

func (r *Registration) Connection(side Side) Connection {
	if side == SideDelivery {
		return r.deliverySide
	}
	return r.orderSide
}

// ParticipantID is the id the given side connects with: the customer id for
// the order side, the partner id for the delivery side.
func (r *Registration) ParticipantID(side Side) string {
	if side == SideDelivery {
		return r.partnerID
	}
	return r.customerID
}

// AssignPartner records the partner once the order is assigned.
func (r *Registration) AssignPartner(partnerID string) {
	partnerID = strings.TrimSpace(partnerID)
	if partnerID == "" {
		return
	}
	r.partnerID = partnerID
	r.partnerAssigned = true
}

// SetConnected marks side as live under connectionID.
func (r *Registration) SetConnected(side Side, connectionID string) error {
	if err := side.Validate(); err != nil {
		return err
	}
	connectionID = strings.TrimSpace(connectionID)
	if connectionID == "" || connectionID == NoConnection {
		return ErrConnectionIDIsRequired
	}
	r.set(side, Connection{Connected: true, ConnectionID: connectionID})
	return nil
}

// SetDisconnected marks side as offline.
func (r *Registration) SetDisconnected(side Side) error {
	if err := side.Validate(); err != nil {
		return err
	}
	r.set(side, offline())
	return nil
}

// ResetConnections marks both sides offline.
func (r *Registration) ResetConnections() {
	r.orderSide = offline()
	r.deliverySide = offline()
}

// IsLive reports whether side is connected and its stored connection id is
// connectionID. A stale connection left behind by a crashed client is not live.
func (r *Registration) IsLive(side Side, connectionID string) bool {
	c := r.Connection(side)
	return c.Connected && connectionID != "" && c.ConnectionID == connectionID
}

// IsConnected reports whether some connection of side is open.
func (r *Registration) IsConnected(side Side) bool {
	c := r.Connection(side)
	return c.Connected && c.ConnectionID != "" && c.ConnectionID != NoConnection
}

func (r *Registration) Snapshot() Snapshot {
	return Snapshot{
		ChatID:          r.chatID,
		OrderType:       r.orderType,
		CustomerID:      r.customerID,
		PartnerID:       r.partnerID,
		PartnerAssigned: r.partnerAssigned,
		OrderSide:       r.orderSide,
		DeliverySide:    r.deliverySide,
	}
}

func (r *Registration) set(side Side, c Connection) {
	if side == SideDelivery {
		r.deliverySide = c
		return
	}
	r.orderSide = c
}

func (r *Registration) setChatID(id order.ID) error {
	parsed, err := order.ParseID(id.String())
	if err != nil {
		return err
	}
	r.chatID = parsed
	return nil
}

func (r *Registration) setType(t order.Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.orderType = t
	return nil
}

func normalize(c Connection) Connection {
	if !c.Connected || c.ConnectionID == "" {
		return offline()
	}
	return c
}
