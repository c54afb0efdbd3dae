package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/game"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn        *websocket.Conn
	send        chan *Message
	playerID    string
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
	gameService *GameService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, gameService *GameService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *Message, 256),
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
		gameService: gameService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.cancel()
		close(c.send)
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A client that cannot keep
// up is disconnected.
func (c *Connection) SendMessage(msg *Message) error {
	c.mu.RLock()
	if c.ctx.Err() != nil {
		c.mu.RUnlock()
		return ErrConnectionClosed
	}

	select {
	case c.send <- msg:
		c.mu.RUnlock()
		return nil
	default:
		c.mu.RUnlock()
		c.logger.Warn("Connection send buffer full, closing connection", "player", c.Player())
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player
func (c *Connection) SetPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// Player returns the associated player ID
func (c *Connection) Player() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var ErrConnectionClosed = errors.New("connection closed")

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
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
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
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

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.Player())

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse join data")
			return
		}
		c.handleJoin(msg, data)

	case MessageTypeLeave:
		c.handleLeave(msg)

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg, "invalid_message", "Failed to parse action data")
			return
		}
		c.handleAction(msg, data)

	case MessageTypeDeal:
		if err := c.gameService.Deal(c.Player()); err != nil {
			c.sendError(msg, "deal_failed", err.Error())
		}

	case MessageTypeState:
		c.reply(msg, MessageTypeState, StateFromSnapshot(c.gameService.Snapshot()))

	default:
		c.sendError(msg, "unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleJoin(req *Message, data JoinData) {
	if c.Player() != "" {
		c.sendError(req, "already_joined", "Connection already holds a seat")
		return
	}

	id, seat, err := c.gameService.Join(data.Name, data.Bank)
	if err != nil {
		c.sendError(req, "join_failed", err.Error())
		return
	}
	c.SetPlayer(id)
	c.logger.Info("Player joined", "name", data.Name, "seat", seat)
	c.reply(req, MessageTypeJoined, JoinedData{PlayerID: id, Seat: seat})
}

func (c *Connection) handleLeave(req *Message) {
	id := c.Player()
	if err := c.gameService.Leave(id); err != nil {
		c.sendError(req, "leave_failed", err.Error())
		return
	}
	c.SetPlayer("")
}

func (c *Connection) handleAction(req *Message, data ActionData) {
	action, err := game.ParseAction(data.Action)
	if err != nil {
		c.sendError(req, "invalid_action", err.Error())
		return
	}

	acted, err := c.gameService.Act(c.Player(), action)
	switch {
	case err != nil:
		c.sendError(req, "action_failed", err.Error())
	case !acted:
		c.sendError(req, "action_rejected", "Action "+action.String()+" not allowed now")
	}
}

func (c *Connection) reply(req *Message, t MessageType, data any) {
	msg, err := NewMessage(t, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	msg.RequestID = req.RequestID
	_ = c.SendMessage(msg)
}

// sendError sends an error message to the client
func (c *Connection) sendError(req *Message, code, message string) {
	c.reply(req, MessageTypeError, ErrorData{Code: code, Message: message})
}
