package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ConnectChatCommandHandler marks a client's side of a chat live. The client
// must be the participant registered for that side.
type ConnectChatCommandHandler struct {
	uowFactory ChatUoWFactory
}

func NewConnectChatCommandHandler(uowFactory ChatUoWFactory) ConnectChatCommandHandler {
	return ConnectChatCommandHandler{uowFactory: uowFactory}
}

func (h ConnectChatCommandHandler) Handle(ctx context.Context, cmd ChatConnectionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ChatRegistrationRepository()
	reg, err := repo.Get(ctx, cmd.ChatID())
	if err != nil {
		return err
	}
	if reg.ParticipantID(cmd.Side()) != cmd.ClientID() {
		return errs.NewValueIsInvalidErrorWithCause("client_id",
			fmt.Errorf("%s is not the %s participant of chat %s", cmd.ClientID(), cmd.Side(), cmd.ChatID()))
	}
	if err := reg.SetConnected(cmd.Side(), cmd.ConnectionID()); err != nil {
		return err
	}
	if err := repo.Upsert(ctx, reg); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// DisconnectChatCommandHandler marks a side offline when the closing socket is
// the one still recorded for it. A chat that is no longer registered is
// ignored.
type DisconnectChatCommandHandler struct {
	uowFactory ChatUoWFactory
}

func NewDisconnectChatCommandHandler(uowFactory ChatUoWFactory) DisconnectChatCommandHandler {
	return DisconnectChatCommandHandler{uowFactory: uowFactory}
}

func (h DisconnectChatCommandHandler) Handle(ctx context.Context, cmd ChatConnectionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ChatRegistrationRepository()
	reg, err := repo.Get(ctx, cmd.ChatID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	// A newer socket of the same client owns the side now.
	if !reg.IsLive(cmd.Side(), cmd.ConnectionID()) {
		return nil
	}
	if err := reg.SetDisconnected(cmd.Side()); err != nil {
		return err
	}
	if err := repo.Upsert(ctx, reg); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// MessageDelivery tells the transport what to do with a routed message.
// Reply is set when the sender gets an answer instead of the receiver.
type MessageDelivery struct {
	services.Routing
	Pushed bool
	Reply  string
}

// RouteChatMessageCommandHandler decides whether a message goes over the
// receiver's live connection or as a push notification.
type RouteChatMessageCommandHandler struct {
	uowFactory ChatUoWFactory
	router     services.MessageRouter
	pusher     *Pusher
	logger     *zap.Logger
}

func NewRouteChatMessageCommandHandler(uowFactory ChatUoWFactory, pusher *Pusher, logger *zap.Logger) RouteChatMessageCommandHandler {
	return RouteChatMessageCommandHandler{
		uowFactory: uowFactory,
		router:     services.NewMessageRouter(),
		pusher:     pusher,
		logger:     orNopLogger(logger),
	}
}

func (h RouteChatMessageCommandHandler) Handle(ctx context.Context, cmd RouteChatMessageCommand) (MessageDelivery, error) {
	if err := cmd.Validate(); err != nil {
		return MessageDelivery{}, err
	}

	reg, err := h.registration(ctx, cmd)
	if err != nil {
		return MessageDelivery{}, err
	}

	routing, err := h.router.Route(reg, cmd.From())
	if err != nil {
		return MessageDelivery{}, err
	}
	delivery := MessageDelivery{Routing: routing}

	switch routing.Route {
	case services.RouteRejectNoPartner:
		delivery.Reply = services.NoPartnerReply
	case services.RoutePush:
		delivery.Pushed = h.pusher.Push(ctx, recipientOf(routing), messageNotification(cmd))
	case services.RouteLive:
	}

	h.logger.Debug("chat message routed",
		zap.String("chat_id", cmd.ChatID().String()),
		zap.Stringer("route", routing.Route))
	return delivery, nil
}

func (h RouteChatMessageCommandHandler) registration(ctx context.Context, cmd RouteChatMessageCommand) (*chat.Registration, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	reg, err := uow.ChatRegistrationRepository().Get(ctx, cmd.ChatID())
	if err != nil {
		return nil, err
	}
	return reg, uow.Commit(ctx)
}

func recipientOf(r services.Routing) ports.Recipient {
	audience := ports.AudienceUser
	if r.Receiver == chat.SideDelivery {
		audience = ports.AudiencePartner
	}
	return ports.Recipient{ID: r.ReceiverID, Audience: audience}
}

func messageNotification(cmd RouteChatMessageCommand) ports.Notification {
	name := strings.ToUpper(cmd.SenderName())
	title := fmt.Sprintf("New message from your order client (%s)", name)
	if cmd.From() == chat.SideDelivery {
		title = fmt.Sprintf("New message from your order partner (%s)", name)
	}
	return ports.Notification{
		Title: title,
		Body:  cmd.Text(),
		Data: map[string]string{
			"chat_id": cmd.ChatID().String(),
			"sender":  cmd.From().String(),
		},
	}
}

// ResetChatConnectionsCommandHandler marks every chat offline. It runs at
// start-up, when no connection of a previous process can still be open.
type ResetChatConnectionsCommandHandler struct {
	uowFactory ChatUoWFactory
}

func NewResetChatConnectionsCommandHandler(uowFactory ChatUoWFactory) ResetChatConnectionsCommandHandler {
	return ResetChatConnectionsCommandHandler{uowFactory: uowFactory}
}

func (h ResetChatConnectionsCommandHandler) Handle(ctx context.Context, cmd ResetChatConnectionsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	n, err := uow.ChatRegistrationRepository().ResetAll(ctx)
	if err != nil {
		return 0, err
	}
	return n, uow.Commit(ctx)
}
