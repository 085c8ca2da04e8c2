package domain

import "time"

// GameScore はセッション内のスコアです。セッション中は単調増加し、
// セッション終了時のみリセットされます。
type GameScore struct {
	Hits  int
	Kills int
}

// PlayerRecord はPlayer Directoryに保存される近隣プレイヤーの記録です。
type PlayerRecord struct {
	PlayerID  string
	Location  Coordinate
	Heading   float64
	UpdatedAt time.Time
}
