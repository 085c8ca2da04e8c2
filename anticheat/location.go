package anticheat

import "skirmish/domain"

const (
	// MinShootingDistance は射撃を許可する最短距離 (メートル) です。
	MinShootingDistance = 2.0
	// MaxShootingDistance は射撃を許可する最長距離 (メートル) です。
	MaxShootingDistance = 50.0
)

// LocationValidation は距離検証の結果です。
// 距離帯の外でもDistanceは常に設定されます。呼び出し側が
// 圏外の偏差フィードバックを表示できるように、拒否はエラーではなく
// IsValidフラグで通知します。
type LocationValidation struct {
	IsValid  bool
	Distance float64
}

// LocationValidator は射手と標的のGPS距離が許容帯に収まるかを検証します。
type LocationValidator struct {
	min float64
	max float64
}

func NewLocationValidator() *LocationValidator {
	return &LocationValidator{
		min: MinShootingDistance,
		max: MaxShootingDistance,
	}
}

// ValidateLocations は距離を計算し、許容帯内かどうかを返します。
func (v *LocationValidator) ValidateLocations(shooter, target domain.Coordinate) LocationValidation {
	distance := domain.Distance(shooter, target)
	return LocationValidation{
		IsValid:  distance >= v.min && distance <= v.max,
		Distance: distance,
	}
}
