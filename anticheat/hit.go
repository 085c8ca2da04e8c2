package anticheat

import (
	"context"
	"errors"
	"time"
)

// ErrTargetNotDetected はタップ位置に十分な信頼度の標的がいない場合に返されます。
var ErrTargetNotDetected = errors.New("anticheat: target not detected")

// HitValidation はカメラ確認付き射撃の検証結果です。
type HitValidation struct {
	IsValid    bool
	Confidence float64
	Timestamp  time.Time
}

// HitValidationService はタップ射撃のAR経路に対する検証を合成します。
// 距離検証はブロードキャスト経路 (セッション側) が担当するため、
// ここでは視覚検証と信頼度閾値のみを判定します。
type HitValidationService struct {
	shots *ShotValidator
}

func NewHitValidationService(shots *ShotValidator) *HitValidationService {
	return &HitValidationService{shots: shots}
}

// ValidateHit はフレームとタップ位置からカメラ確認付きの命中判定を行います。
func (s *HitValidationService) ValidateHit(ctx context.Context, frame []byte, tap Point) (HitValidation, error) {
	validation, err := s.shots.ValidateShot(ctx, frame, tap)
	if err != nil {
		return HitValidation{}, err
	}
	if !validation.IsValid || !validation.IsHighConfidence() {
		return HitValidation{}, ErrTargetNotDetected
	}
	return HitValidation{
		IsValid:    true,
		Confidence: validation.Confidence,
		Timestamp:  validation.Timestamp,
	}, nil
}
