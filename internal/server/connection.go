package server

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjackroom/internal/roomcode"
)

// Connection represents a WebSocket connection to a client. Each
// connection is one player identity; the id is minted server-side at
// upgrade time and handed to the client in room_joined.
type Connection struct {
	conn        *websocket.Conn
	send        chan *Message
	playerID    string
	username    string
	roomCode    string
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
	roomService *RoomService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, roomService *RoomService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *Message, 256),
		playerID:    roomcode.Generate(16, nil),
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
		roomService: roomService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// PlayerID returns this connection's player identity
func (c *Connection) PlayerID() string {
	return c.playerID
}

// SetRoom associates this connection with a room
func (c *Connection) SetRoom(roomCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = roomCode
}

// GetRoom returns the associated room code
func (c *Connection) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomCode
}

// SetUsername records the display name chosen at create/join time
func (c *Connection) SetUsername(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = username
}

// GetUsername returns the display name
func (c *Connection) GetUsername() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
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

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client. Errors
// are reported to the originating connection only; room state is never
// mutated by a rejected command.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.playerID)

	if c.roomService == nil {
		c.sendError("Room service not available")
		return
	}

	switch msg.Type {
	case MessageTypeCreateRoom:
		var data CreateRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse create room data")
			return
		}
		c.handleCreateRoom(data)

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse join room data")
			return
		}
		c.handleJoinRoom(data)

	case MessageTypeLeaveRoom:
		c.handleLeaveRoom()

	case MessageTypeStartGame:
		c.inRoom(func(code string) error {
			return c.roomService.StartGame(code, c.playerID)
		})

	case MessageTypePlaceBet:
		var data PlaceBetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse bet data")
			return
		}
		c.inRoom(func(code string) error {
			return c.roomService.PlaceBet(code, c.playerID, data.Amount)
		})

	case MessageTypeHit:
		handID := actionHandID(msg)
		c.inRoom(func(code string) error {
			return c.roomService.Hit(code, c.playerID, handID)
		})

	case MessageTypeStand:
		handID := actionHandID(msg)
		c.inRoom(func(code string) error {
			return c.roomService.Stand(code, c.playerID, handID)
		})

	case MessageTypeDoubleDown:
		handID := actionHandID(msg)
		c.inRoom(func(code string) error {
			return c.roomService.DoubleDown(code, c.playerID, handID)
		})

	case MessageTypeSplit:
		c.inRoom(func(code string) error {
			return c.roomService.Split(code, c.playerID)
		})

	case MessageTypeSurrender:
		handID := actionHandID(msg)
		c.inRoom(func(code string) error {
			return c.roomService.Surrender(code, c.playerID, handID)
		})

	case MessageTypeNewRound:
		c.inRoom(func(code string) error {
			return c.roomService.NewRound(code, c.playerID)
		})

	case MessageTypeSendMessage:
		var data SendMessageData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Failed to parse chat data")
			return
		}
		if strings.TrimSpace(data.Message) == "" {
			return
		}
		c.inRoom(func(code string) error {
			return c.roomService.SendChat(code, c.GetUsername(), data.Message)
		})

	default:
		c.sendError("Unknown message type: " + msg.Type.String())
	}
}

// actionHandID extracts the optional handId from an action payload. An
// absent or malformed payload targets the caller's primary hand.
func actionHandID(msg *Message) string {
	if len(msg.Data) == 0 {
		return ""
	}
	var data ActionData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return ""
	}
	return data.HandID
}

// inRoom runs fn against the connection's current room, reporting any
// failure back to this client
func (c *Connection) inRoom(fn func(roomCode string) error) {
	code := c.GetRoom()
	if code == "" {
		c.sendError("Not in a room")
		return
	}
	if err := fn(code); err != nil {
		c.sendError(err.Error())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{Message: message})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}

func (c *Connection) handleCreateRoom(data CreateRoomData) {
	c.logger.Info("Create room request", "username", data.Username)

	username := strings.TrimSpace(data.Username)
	if username == "" {
		c.sendError("Username required")
		return
	}
	if c.GetRoom() != "" {
		c.sendError("Already in a room")
		return
	}

	code, err := c.roomService.CreateRoom(c.playerID, username)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	c.SetUsername(username)
	c.SetRoom(code)
}

func (c *Connection) handleJoinRoom(data JoinRoomData) {
	c.logger.Info("Join room request", "room", data.RoomID, "username", data.Username)

	username := strings.TrimSpace(data.Username)
	if username == "" {
		c.sendError("Username required")
		return
	}
	if c.GetRoom() != "" {
		c.sendError("Already in a room")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(data.RoomID))
	if !roomcode.Valid(code) {
		c.sendError("Invalid room code")
		return
	}

	if err := c.roomService.JoinRoom(code, c.playerID, username); err != nil {
		c.sendError(err.Error())
		return
	}

	c.SetUsername(username)
	c.SetRoom(code)
}

func (c *Connection) handleLeaveRoom() {
	code := c.GetRoom()
	if code == "" {
		c.sendError("Not in a room")
		return
	}

	if err := c.roomService.Leave(code, c.playerID); err != nil {
		c.sendError(err.Error())
		return
	}
	c.SetRoom("")
}
