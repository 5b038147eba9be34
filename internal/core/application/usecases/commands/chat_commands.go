package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrChatConnectionCommandIsNotConstructed = errors.New(
		"chat connection command is not constructed, use NewChatConnectionCommand")
	ErrRouteChatMessageCommandIsNotConstructed = errors.New(
		"route chat message command is not constructed, use NewRouteChatMessageCommand")
	ErrResetChatConnectionsCommandIsNotConstructed = errors.New(
		"reset chat connections command is not constructed, use NewResetChatConnectionsCommand")
)

// ChatConnectionCommand identifies one side of a chat: the client that opens
// or closes its connection, and the socket it does so over. A reconnecting
// client gets a new connectionID.
type ChatConnectionCommand struct {
	chatID       order.ID
	side         chat.Side
	clientID     string
	connectionID string

	guard guard.ConstructorGuard
}

// NewChatConnectionCommand takes the client type as the apps send it,
// order_client or delivery_client.
func NewChatConnectionCommand(
	chatID string,
	clientID string,
	clientType string,
	connectionID string,
) (ChatConnectionCommand, error) {
	c := ChatConnectionCommand{guard: guard.NewConstructorGuard()}

	id, idErr := order.ParseID(chatID)
	side, sideErr := chat.ParseSide(clientType)
	var clientErr, connErr error
	if clientID == "" {
		clientErr = errs.NewValueIsRequiredError("client_id")
	}
	if connectionID == "" {
		connErr = errs.NewValueIsRequiredError("connection_id")
	}
	if err := errors.Join(idErr, sideErr, clientErr, connErr); err != nil {
		return ChatConnectionCommand{}, err
	}

	c.chatID = id
	c.side = side
	c.clientID = clientID
	c.connectionID = connectionID
	return c, nil
}

func (c ChatConnectionCommand) Validate() error {
	return c.guard.Validate(ErrChatConnectionCommandIsNotConstructed)
}

func (c ChatConnectionCommand) ChatID() order.ID {
	return c.chatID
}

func (c ChatConnectionCommand) Side() chat.Side {
	return c.side
}

func (c ChatConnectionCommand) ClientID() string {
	return c.clientID
}

func (c ChatConnectionCommand) ConnectionID() string {
	return c.connectionID
}

// RouteChatMessageCommand is a message written by one side of a chat.
type RouteChatMessageCommand struct {
	chatID     order.ID
	from       chat.Side
	senderName string
	text       string

	guard guard.ConstructorGuard
}

func NewRouteChatMessageCommand(chatID order.ID, from chat.Side, senderName string, text string) (RouteChatMessageCommand, error) {
	var textErr error
	if text == "" {
		textErr = errs.NewValueIsRequiredError("message")
	}
	var idErr error
	if chatID == "" {
		idErr = errs.NewValueIsRequiredError("chat_id")
	}
	if err := errors.Join(idErr, from.Validate(), textErr); err != nil {
		return RouteChatMessageCommand{}, err
	}

	return RouteChatMessageCommand{
		chatID:     chatID,
		from:       from,
		senderName: senderName,
		text:       text,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RouteChatMessageCommand) Validate() error {
	return c.guard.Validate(ErrRouteChatMessageCommandIsNotConstructed)
}

func (c RouteChatMessageCommand) ChatID() order.ID {
	return c.chatID
}

func (c RouteChatMessageCommand) From() chat.Side {
	return c.from
}

func (c RouteChatMessageCommand) SenderName() string {
	return c.senderName
}

func (c RouteChatMessageCommand) Text() string {
	return c.text
}

type ResetChatConnectionsCommand struct {
	guard guard.ConstructorGuard
}

func NewResetChatConnectionsCommand() ResetChatConnectionsCommand {
	return ResetChatConnectionsCommand{guard: guard.NewConstructorGuard()}
}

func (c ResetChatConnectionsCommand) Validate() error {
	return c.guard.Validate(ErrResetChatConnectionsCommandIsNotConstructed)
}
