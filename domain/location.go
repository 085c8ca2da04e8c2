package domain

import "time"

// Coordinate は緯度・経度 (度) と高度 (メートル) を表します。
type Coordinate struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// LocationSample は位置サブシステムが提供する現在位置のスナップショットです。
// Accuracy は水平精度半径 (メートル) です。
type LocationSample struct {
	Coordinate
	Accuracy  float64
	Timestamp time.Time
}
