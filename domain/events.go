package domain

// Event はセッションが発行する購読可能なイベントです。
type Event interface {
	isEvent()
}

// PlayerWasHit はローカルプレイヤーが被弾したイベントです。
type PlayerWasHit struct {
	ShooterID string
	Damage    int
	LivesLeft int
}

// PlayerDied はローカルプレイヤーのライフが0になったイベントです。
type PlayerDied struct {
	KillerID string
}

// PlayerRespawned はリスポーンタイマー満了で復活したイベントです。
type PlayerRespawned struct{}

// HitConfirmed は自分の射撃が相手に命中したイベントです。
type HitConfirmed struct {
	TargetID string
	Hits     int
}

// KillConfirmed は自分の射撃が相手を倒したイベントです。
type KillConfirmed struct {
	TargetID string
	Kills    int
}

// ShotMissed はニアミスのフィードバックイベントです。
type ShotMissed struct {
	TargetID  string
	Distance  float64
	Deviation float64
}

// ConnectionLost はトランスポート切断イベントです。
type ConnectionLost struct {
	Err error
}

func (PlayerWasHit) isEvent()    {}
func (PlayerDied) isEvent()      {}
func (PlayerRespawned) isEvent() {}
func (HitConfirmed) isEvent()    {}
func (KillConfirmed) isEvent()   {}
func (ShotMissed) isEvent()      {}
func (ConnectionLost) isEvent()  {}
