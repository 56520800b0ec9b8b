package domain

import "time"

type CommandContext struct {
	Room      string
	RoomName  string
	Sender    string
	Message   string
	Timestamp time.Time
}

func NewCommandContext(room, roomName, sender, message string) *CommandContext {
	return &CommandContext{
		Room:      room,
		RoomName:  roomName,
		Sender:    sender,
		Message:   message,
		Timestamp: time.Now(),
	}
}
