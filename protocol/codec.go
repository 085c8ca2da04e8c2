package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMissingType     = errors.New("protocol: missing message type")
	ErrMissingPlayerID = errors.New("protocol: missing player id")
	ErrUnknownType     = errors.New("protocol: unknown message type")
)

// envelope はワイヤ上のJSON表現です。dataはTypeに応じて解釈します。
type envelope struct {
	Type      MessageType     `json:"type"`
	PlayerID  string          `json:"playerId"`
	SenderID  string          `json:"senderId,omitempty"`
	PushToken string          `json:"pushToken,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Encode はGameMessageを1フレームのJSONにエンコードします。
func Encode(msg *GameMessage) ([]byte, error) {
	if msg.Type == "" {
		return nil, ErrMissingType
	}
	if msg.PlayerID == "" {
		return nil, ErrMissingPlayerID
	}

	env := envelope{
		Type:      msg.Type,
		PlayerID:  msg.PlayerID,
		SenderID:  msg.SenderID,
		PushToken: msg.PushToken,
	}

	var payload any
	switch {
	case msg.Player != nil:
		payload = msg.Player
	case msg.Shoot != nil:
		payload = msg.Shoot
	case msg.Drone != nil:
		payload = msg.Drone
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("protocol: encode payload: %w", err)
		}
		env.Data = data
	}

	return json.Marshal(env)
}

// Decode は1フレームをGameMessageにデコードします。
// 未知のフィールドは無視し、ペイロードはTypeごとの型で解釈します。
func Decode(data []byte) (*GameMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("protocol: decode frame: %w", err)
	}
	if env.Type == "" {
		return nil, ErrMissingType
	}
	if env.PlayerID == "" {
		return nil, ErrMissingPlayerID
	}

	msg := &GameMessage{
		Type:      env.Type,
		PlayerID:  env.PlayerID,
		SenderID:  env.SenderID,
		PushToken: env.PushToken,
	}

	switch env.Type {
	case TypeJoin, TypeAnnounced, TypeLeave:
		if len(env.Data) > 0 {
			var player PlayerData
			if err := json.Unmarshal(env.Data, &player); err != nil {
				return nil, fmt.Errorf("protocol: decode player payload: %w", err)
			}
			msg.Player = &player
		}
	case TypeShoot, TypeShootConfirmed, TypeHit, TypeKill, TypeHitConfirmed:
		if len(env.Data) > 0 {
			var shoot ShootData
			if err := json.Unmarshal(env.Data, &shoot); err != nil {
				return nil, fmt.Errorf("protocol: decode shoot payload: %w", err)
			}
			msg.Shoot = &shoot
		}
	case TypeShootDrone:
		if len(env.Data) > 0 {
			var drone DroneData
			if err := json.Unmarshal(env.Data, &drone); err != nil {
				return nil, fmt.Errorf("protocol: decode drone payload: %w", err)
			}
			msg.Drone = &drone
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, env.Type)
	}

	return msg, nil
}
