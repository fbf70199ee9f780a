package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformed   = errors.New("malformed frame")
	ErrUnknownType = errors.New("unknown message type")
	ErrMissingRoom = errors.New("missing room")
)

type header struct {
	Type      Type      `json:"type"`
	EventType EventType `json:"eventType"`
}

// Decode parses a frame into its concrete message. Unknown fields are
// ignored, unknown tags and payloads that don't fit their tag are rejected.
func Decode(data []byte) (Message, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var (
		msg Message
		err error
	)
	switch h.Type {
	case TypeJoinRoom:
		msg, err = decodeAs[JoinRoom](data)
	case TypeRoomJoined:
		msg, err = decodeAs[RoomJoined](data)
	case TypeBeginDrawing:
		msg, err = decodeAs[BeginDrawing](data)
	case TypeDraw:
		if h.EventType == EventClientPointer {
			// Older boards sent presence as a draw frame.
			msg, err = decodeAs[ClientPointer](data)
		} else {
			msg, err = decodeAs[Draw](data)
		}
	case TypeFinishDrawing:
		msg, err = decodeAs[FinishDrawing](data)
	case TypeClientPointer:
		msg, err = decodeAs[ClientPointer](data)
	case TypePeerLeft:
		msg, err = decodeAs[PeerLeft](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, h.Type)
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func decodeAs[T Message](data []byte) (Message, error) {
	var m T
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return m, nil
}

// Validate checks the invariants a frame must hold before it is relayed or
// applied.
func Validate(m Message) error {
	if m.RoomID() == "" {
		return fmt.Errorf("%s: %w", m.Kind(), ErrMissingRoom)
	}
	switch v := m.(type) {
	case BeginDrawing:
		if v.EventType != EventDraw && v.EventType != EventErase {
			return fmt.Errorf("%w: begin-drawing eventType %q", ErrMalformed, v.EventType)
		}
		if v.EventType == EventErase && v.EraserRadius <= 0 {
			return fmt.Errorf("%w: eraser without radius", ErrMalformed)
		}
	case Draw:
		switch v.EventType {
		case EventDraw:
			if v.LastPoint == nil {
				return fmt.Errorf("%w: draw without lastPoint", ErrMalformed)
			}
		case EventErase:
			if v.EraserRadius <= 0 {
				return fmt.Errorf("%w: eraser without radius", ErrMalformed)
			}
		default:
			return fmt.Errorf("%w: draw eventType %q", ErrMalformed, v.EventType)
		}
	}
	return nil
}

// Encode serialises m as a frame tagged with its type.
func Encode(m Message) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	tag, err := json.Marshal(m.Kind())
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(body)+len(tag)+9)
	out = append(out, `{"type":`...)
	out = append(out, tag...)
	if len(body) > 2 {
		out = append(out, ',')
	}
	out = append(out, body[1:]...)
	return out, nil
}
