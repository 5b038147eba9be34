package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/chat"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32

	unknownSender = "Unknown"
)

// ChatMessage is the frame both chat apps send and receive.
type ChatMessage struct {
	Message     string `json:"message"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	ClientType  string `json:"client_type"`
	MessageTime string `json:"message_time"`
}

// ChatHub keeps the live chat connections, one room per order. Whether a
// message travels over the room or as a push notification is decided by the
// chat registry, not by who is in the room.
type ChatHub struct {
	connect    ChatConnectionHandler
	disconnect ChatConnectionHandler
	route      ChatMessageHandler
	upgrader   websocket.Upgrader
	logger     *zap.Logger

	mu    sync.RWMutex
	rooms map[order.ID]map[*chatClient]struct{}
}

type chatClient struct {
	conn     *websocket.Conn
	send     chan []byte
	chatID   order.ID
	side     chat.Side
	clientID string
	once     sync.Once
}

func (c *chatClient) close() {
	c.once.Do(func() { close(c.send) })
}

func NewChatHub(connect ChatConnectionHandler, disconnect ChatConnectionHandler, route ChatMessageHandler, logger *zap.Logger) *ChatHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHub{
		connect:    connect,
		disconnect: disconnect,
		route:      route,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		logger: logger.With(zap.String("component", "chat_hub")),
		rooms:  make(map[order.ID]map[*chatClient]struct{}),
	}
}

// ServeChat handles GET /ws/chat/:chatId/:clientId/:clientType. The request
// goroutine runs the read loop until the client goes away. Every socket gets
// its own connection id.
func (h *ChatHub) ServeChat(c echo.Context) error {
	params, err := pathParams(c, "chatId", "clientId", "clientType")
	if err != nil {
		return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()})
	}
	cmd, err := commands.NewChatConnectionCommand(params[0], params[1], params[2], uuid.NewString())
	if err != nil {
		return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: err.Error()})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	client := &chatClient{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		chatID:   cmd.ChatID(),
		side:     cmd.Side(),
		clientID: cmd.ClientID(),
	}
	logger := h.logger.With(
		zap.String("chat_id", client.chatID.String()),
		zap.String("client_id", client.clientID),
		zap.String("connection_id", cmd.ConnectionID()),
		zap.Stringer("side", client.side))

	if err := h.connect.Handle(c.Request().Context(), cmd); err != nil {
		logger.Warn("chat connection rejected", zap.Error(err))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "chat is not registered"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return nil
	}

	h.register(client)
	logger.Info("chat client connected")

	go h.writePump(client)
	h.readPump(client, logger)

	h.unregister(client)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), writeWait)
	defer cancel()
	if err := h.disconnect.Handle(ctx, cmd); err != nil {
		logger.Warn("chat disconnect not recorded", zap.Error(err))
	}
	logger.Info("chat client disconnected")
	return nil
}

func (h *ChatHub) register(c *chatClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.chatID]
	if !ok {
		room = make(map[*chatClient]struct{})
		h.rooms[c.chatID] = room
	}
	room[c] = struct{}{}
}

func (h *ChatHub) unregister(c *chatClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[c.chatID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.chatID)
		}
	}
	c.close()
}

// broadcast queues payload for everyone in the room. Clients that cannot keep
// up lose the message.
func (h *ChatHub) broadcast(chatID order.ID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[chatID] {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("chat client too slow, message dropped", zap.String("client_id", c.clientID))
		}
	}
}

// reply queues payload for the sender only.
func (h *ChatHub) reply(c *chatClient, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.rooms[c.chatID][c]; !ok {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (h *ChatHub) readPump(c *chatClient, logger *zap.Logger) {
	defer func() {
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("chat read ended", zap.Error(err))
			}
			return
		}
		h.handleMessage(c, data, logger)
	}
}

func (h *ChatHub) handleMessage(c *chatClient, data []byte, logger *zap.Logger) {
	var msg ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn("malformed chat frame", zap.Error(err))
		return
	}
	if msg.UserName == "" {
		msg.UserName = unknownSender
	}

	cmd, err := commands.NewRouteChatMessageCommand(c.chatID, c.side, msg.UserName, msg.Message)
	if err != nil {
		logger.Warn("chat message rejected", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	delivery, err := h.route.Handle(ctx, cmd)
	if err != nil {
		logger.Warn("chat message not routed", zap.Error(err))
		return
	}

	switch delivery.Route {
	case services.RouteLive:
		payload, err := json.Marshal(msg)
		if err != nil {
			return
		}
		h.broadcast(c.chatID, payload)
	case services.RouteRejectNoPartner:
		answer := msg
		answer.Message = delivery.Reply
		payload, err := json.Marshal(answer)
		if err != nil {
			return
		}
		h.reply(c, payload)
	case services.RoutePush:
		if !delivery.Pushed {
			logger.Info("chat message could not be pushed")
		}
	}
}

func (h *ChatHub) writePump(c *chatClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
