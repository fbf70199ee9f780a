package client

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// RoomIDLength is the length of generated room identifiers.
	RoomIDLength = 7
	roomAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Bytes at or above this value would favour the first letters of the
	// alphabet and are thrown away.
	roomByteLimit = 256 - 256%len(roomAlphabet)
)

// NewRoomID returns a random 7 character alphanumeric room identifier.
func NewRoomID() (string, error) {
	return roomIDFrom(rand.Reader)
}

func roomIDFrom(r io.Reader) (string, error) {
	id := make([]byte, 0, RoomIDLength)
	buf := make([]byte, RoomIDLength)
	for len(id) < RoomIDLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("generate room id: %w", err)
		}
		for _, b := range buf {
			if int(b) >= roomByteLimit {
				continue
			}
			id = append(id, roomAlphabet[int(b)%len(roomAlphabet)])
			if len(id) == RoomIDLength {
				break
			}
		}
	}
	return string(id), nil
}
