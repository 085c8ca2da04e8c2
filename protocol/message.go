package protocol

// MessageType はゲームメッセージの種別です。
type MessageType string

const (
	TypeJoin           MessageType = "join"
	TypeShoot          MessageType = "shoot"
	TypeShootDrone     MessageType = "shootDrone"
	TypeShootConfirmed MessageType = "shootConfirmed"
	TypeHit            MessageType = "hit"
	TypeKill           MessageType = "kill"
	TypeHitConfirmed   MessageType = "hitConfirmed"
	TypeLeave          MessageType = "leave"
	TypeAnnounced      MessageType = "announced"
)

// LocationData はメッセージに載せる位置情報です。
// Accuracy は水平精度半径 (メートル) です。
type LocationData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude,omitempty"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// PlayerData は join / announced のペイロードです。
type PlayerData struct {
	Location *LocationData `json:"location,omitempty"`
	Heading  *float64      `json:"heading,omitempty"`
}

// ShootData は射撃系メッセージのペイロードです。
// Distance / Deviation は shootConfirmed のニアミスフィードバックでのみ設定されます。
type ShootData struct {
	HitPlayerID string        `json:"hitPlayerId,omitempty"`
	Damage      int           `json:"damage,omitempty"`
	Location    *LocationData `json:"location,omitempty"`
	Heading     *float64      `json:"heading,omitempty"`
	Distance    *float64      `json:"distance,omitempty"`
	Deviation   *float64      `json:"deviation,omitempty"`
}

// DroneData は shootDrone のペイロードです。
type DroneData struct {
	DroneID string `json:"droneId"`
	Reward  int    `json:"reward,omitempty"`
}

// GameMessage はワイヤプロトコルの1フレームです。
// ペイロードはTypeに応じて Player / Shoot / Drone のいずれか1つのみ設定されます。
// SenderID は確認メッセージを元の射手に届けるための値で、往復の間
// 改変せずそのまま保持しなければなりません。
type GameMessage struct {
	Type      MessageType
	PlayerID  string
	SenderID  string
	PushToken string

	Player *PlayerData
	Shoot  *ShootData
	Drone  *DroneData
}
