package protocol

import (
	"errors"
	"testing"
)

func TestEncodeDecode_ShootRoundTrip(t *testing.T) {
	heading := 42.5
	original := &GameMessage{
		Type:      TypeShoot,
		PlayerID:  "player-1",
		SenderID:  "player-2",
		PushToken: "token-abc",
		Shoot: &ShootData{
			HitPlayerID: "player-1",
			Damage:      2,
			Location:    &LocationData{Latitude: 35.6, Longitude: 139.7, Accuracy: 8},
			Heading:     &heading,
		},
	}

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.Type != original.Type {
		t.Errorf("Type = %s, want %s", decoded.Type, original.Type)
	}
	if decoded.PlayerID != original.PlayerID {
		t.Errorf("PlayerID = %s, want %s", decoded.PlayerID, original.PlayerID)
	}
	// senderIdは往復の間そのまま保持されること
	if decoded.SenderID != original.SenderID {
		t.Errorf("SenderID = %s, want %s", decoded.SenderID, original.SenderID)
	}
	if decoded.PushToken != original.PushToken {
		t.Errorf("PushToken = %s, want %s", decoded.PushToken, original.PushToken)
	}
	if decoded.Shoot == nil {
		t.Fatal("Shoot payload is nil")
	}
	if decoded.Shoot.HitPlayerID != "player-1" {
		t.Errorf("HitPlayerID = %s, want player-1", decoded.Shoot.HitPlayerID)
	}
	if decoded.Shoot.Damage != 2 {
		t.Errorf("Damage = %d, want 2", decoded.Shoot.Damage)
	}
	if decoded.Shoot.Heading == nil || *decoded.Shoot.Heading != heading {
		t.Errorf("Heading = %v, want %f", decoded.Shoot.Heading, heading)
	}
	if decoded.Shoot.Location == nil || decoded.Shoot.Location.Accuracy != 8 {
		t.Errorf("Location = %+v, want accuracy 8", decoded.Shoot.Location)
	}
}

func TestEncodeDecode_JoinRoundTrip(t *testing.T) {
	heading := 180.0
	original := &GameMessage{
		Type:     TypeJoin,
		PlayerID: "player-1",
		Player: &PlayerData{
			Location: &LocationData{Latitude: 1, Longitude: 2},
			Heading:  &heading,
		},
	}

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.Player == nil || decoded.Player.Location == nil {
		t.Fatal("Player payload missing")
	}
	if decoded.Player.Location.Latitude != 1 || decoded.Player.Location.Longitude != 2 {
		t.Errorf("Location = %+v, want {1 2}", decoded.Player.Location)
	}
	if decoded.Shoot != nil || decoded.Drone != nil {
		t.Error("only Player payload should be set for join")
	}
}

func TestEncodeDecode_DroneRoundTrip(t *testing.T) {
	original := &GameMessage{
		Type:     TypeShootDrone,
		PlayerID: "player-1",
		Drone:    &DroneData{DroneID: "drone-7", Reward: 50},
	}

	data, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.Drone == nil || decoded.Drone.DroneID != "drone-7" || decoded.Drone.Reward != 50 {
		t.Errorf("Drone = %+v, want {drone-7 50}", decoded.Drone)
	}
}

func TestDecode_LeaveWithoutPayload(t *testing.T) {
	decoded, err := Decode([]byte(`{"type":"leave","playerId":"player-9"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Type != TypeLeave || decoded.PlayerID != "player-9" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestDecode_ToleratesUnknownFields(t *testing.T) {
	frame := []byte(`{"type":"shoot","playerId":"p1","future":"field","data":{"damage":1,"extra":123}}`)
	decoded, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded.Shoot == nil || decoded.Shoot.Damage != 1 {
		t.Errorf("Shoot = %+v, want damage 1", decoded.Shoot)
	}
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decode([]byte(`{"type":"teleport","playerId":"p1"}`))
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
}

func TestDecode_MissingRequiredFields(t *testing.T) {
	if _, err := Decode([]byte(`{"playerId":"p1"}`)); !errors.Is(err, ErrMissingType) {
		t.Errorf("expected ErrMissingType, got %v", err)
	}
	if _, err := Decode([]byte(`{"type":"join"}`)); !errors.Is(err, ErrMissingPlayerID) {
		t.Errorf("expected ErrMissingPlayerID, got %v", err)
	}
}

func TestDecode_MalformedFrame(t *testing.T) {
	if _, err := Decode([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for malformed frame")
	}
}

func TestEncode_MissingRequiredFields(t *testing.T) {
	if _, err := Encode(&GameMessage{PlayerID: "p1"}); !errors.Is(err, ErrMissingType) {
		t.Errorf("expected ErrMissingType, got %v", err)
	}
	if _, err := Encode(&GameMessage{Type: TypeJoin}); !errors.Is(err, ErrMissingPlayerID) {
		t.Errorf("expected ErrMissingPlayerID, got %v", err)
	}
}
