package anticheat

import (
	"context"
	"errors"
	"sync"
	"time"
)

//go:generate go tool mockgen -destination=./mocks/detector_mock.go -package=mocks . Detector

// Detector は1枚のカメラフレームから人物領域を検出します。
type Detector interface {
	DetectPersons(ctx context.Context, frame []byte) ([]Observation, error)
}

// Observation は検出された人物領域です。BoundingBoxは正規化座標で、
// 原点は左下です。
type Observation struct {
	BoundingBox Rect
	Confidence  float64
}

// Rect は正規化された矩形 [0,1] です。
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains は点 (x, y) が矩形内にあるかを返します。
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Point はビュー座標のタップ位置 (正規化済み、原点は左上) です。
type Point struct {
	X, Y float64
}

const (
	// MinShotInterval は連射防止の最小射撃間隔です。
	MinShotInterval = 1 * time.Second
	// HighConfidenceThreshold は高信頼と判定する信頼度の下限 (排他) です。
	HighConfidenceThreshold = 0.8
)

var (
	ErrShotTooFast      = errors.New("anticheat: shot interval below minimum")
	ErrNotInitialized   = errors.New("anticheat: detector not initialized")
	ErrNoObservations   = errors.New("anticheat: no person observations in frame")
	ErrNoPersonDetected = errors.New("anticheat: no person under tap point")
)

// ShotValidation は射撃検証の結果です。1回の検証内でのみ使用され、永続化されません。
type ShotValidation struct {
	IsValid     bool
	Confidence  float64
	Timestamp   time.Time
	BoundingBox Rect
}

// IsHighConfidence は信頼度が閾値を超えているかを返します。
func (v ShotValidation) IsHighConfidence() bool {
	return v.Confidence > HighConfidenceThreshold
}

// ShotValidator はタップ位置が検出された人物領域と重なるかを確認し、
// 最小射撃間隔を強制します。プロセス内で共有される前提の状態
// (最終検証時刻) を持ちます。
type ShotValidator struct {
	detector Detector
	interval time.Duration
	clock    func() time.Time

	mu            sync.Mutex
	lastValidated time.Time
}

// Option はShotValidatorの設定を上書きします。
type Option func(*ShotValidator)

// WithInterval は最小射撃間隔を上書きします。
func WithInterval(d time.Duration) Option {
	return func(v *ShotValidator) { v.interval = d }
}

// WithClock は時刻取得関数を上書きします。
func WithClock(clock func() time.Time) Option {
	return func(v *ShotValidator) { v.clock = clock }
}

func NewShotValidator(detector Detector, opts ...Option) *ShotValidator {
	v := &ShotValidator{
		detector: detector,
		interval: MinShotInterval,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateShot はタップ位置の下に人物が写っているかを検証します。
// クールダウン判定は検出処理より先に行います。成功時のみ最終検証時刻を更新します。
// ミューテックスが呼び出し全体を直列化するため、check-then-setは競合しません。
func (v *ShotValidator) ValidateShot(ctx context.Context, frame []byte, tap Point) (ShotValidation, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.clock()
	if !v.lastValidated.IsZero() && now.Sub(v.lastValidated) < v.interval {
		return ShotValidation{}, ErrShotTooFast
	}

	if v.detector == nil {
		return ShotValidation{}, ErrNotInitialized
	}

	observations, err := v.detector.DetectPersons(ctx, frame)
	if err != nil {
		return ShotValidation{}, err
	}
	if len(observations) == 0 {
		return ShotValidation{}, ErrNoObservations
	}

	// 検出領域は原点左下の正規化座標なので、ビュー座標のYを反転する
	flippedY := 1 - tap.Y
	for _, obs := range observations {
		if obs.BoundingBox.Contains(tap.X, flippedY) {
			v.lastValidated = now
			return ShotValidation{
				IsValid:     true,
				Confidence:  obs.Confidence,
				Timestamp:   now,
				BoundingBox: obs.BoundingBox,
			}, nil
		}
	}

	return ShotValidation{}, ErrNoPersonDetected
}
