package services

import (
	"dispatch/internal/core/domain/model/chat"
)

// NoPartnerReply is sent back to a customer who writes before a partner is assigned.
const NoPartnerReply = "Unable to send message right now. Delivery partner is not assigned."

// Route is how a chat message reaches its receiver.
type Route int

const (
	// RouteLive delivers over the receiver's open connection.
	RouteLive Route = iota + 1
	// RoutePush converts the message into a push notification.
	RoutePush
	// RouteRejectNoPartner answers the sender with NoPartnerReply.
	RouteRejectNoPartner
)

func (r Route) String() string {
	switch r {
	case RouteLive:
		return "live"
	case RoutePush:
		return "push"
	case RouteRejectNoPartner:
		return "reject_no_partner"
	default:
		return "unknown"
	}
}

// Routing is the decision for one message.
type Routing struct {
	Route      Route
	Receiver   chat.Side
	ReceiverID string
}

// MessageRouter decides chat delivery from a registration snapshot.
type MessageRouter struct{}

func NewMessageRouter() MessageRouter {
	return MessageRouter{}
}

func (MessageRouter) Route(reg *chat.Registration, from chat.Side) (Routing, error) {
	if err := reg.Validate(); err != nil {
		return Routing{}, err
	}
	if err := from.Validate(); err != nil {
		return Routing{}, err
	}

	receiver := from.Other()
	if receiver == chat.SideDelivery && !reg.IsPartnerAssigned() {
		return Routing{Route: RouteRejectNoPartner, Receiver: receiver}, nil
	}

	receiverID := reg.ParticipantID(receiver)
	if reg.IsConnected(receiver) {
		return Routing{Route: RouteLive, Receiver: receiver, ReceiverID: receiverID}, nil
	}
	return Routing{Route: RoutePush, Receiver: receiver, ReceiverID: receiverID}, nil
}
