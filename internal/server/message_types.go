package server

// Note: game events (player_turn, card_dealt, game_ended, etc.) are
// defined in internal/game/events.go and are forwarded to clients as
// WebSocket messages under the same names

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeCreateRoom  MessageType = "create_room"
	MessageTypeJoinRoom    MessageType = "join_room"
	MessageTypeLeaveRoom   MessageType = "leave_room"
	MessageTypeStartGame   MessageType = "start_game"
	MessageTypePlaceBet    MessageType = "place_bet"
	MessageTypeHit         MessageType = "hit"
	MessageTypeStand       MessageType = "stand"
	MessageTypeDoubleDown  MessageType = "double_down"
	MessageTypeSplit       MessageType = "split"
	MessageTypeSurrender   MessageType = "surrender"
	MessageTypeNewRound    MessageType = "new_round"
	MessageTypeSendMessage MessageType = "send_message"

	// Server to client messages
	MessageTypeRoomJoined         MessageType = "room_joined"
	MessageTypeChatMessage        MessageType = "message"
	MessageTypeLeaderboardUpdated MessageType = "leaderboard_updated"
	MessageTypeError              MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
