package session

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"skirmish/anticheat"
	"skirmish/directory"
	"skirmish/domain"
	"skirmish/eventbus"
	"skirmish/protocol"
)

var (
	// ErrLocationUnavailable は有効な現在位置が得られない場合に返されるエラーです。
	ErrLocationUnavailable = errors.New("session: no valid location available")
	// ErrHeadingUnavailable は方位が得られない場合に返されるエラーです。
	ErrHeadingUnavailable = errors.New("session: no heading available")
	// ErrNotStarted はセッション開始前の操作に返されるエラーです。
	ErrNotStarted = errors.New("session: not started")
	// ErrNotAlive はリスポーン待機中の射撃に返されるエラーです。
	ErrNotAlive = errors.New("session: player is dead")
	// ErrInitializationFailed は依存が欠けている場合に返されるエラーです。
	ErrInitializationFailed = errors.New("session: missing dependencies")
)

// LocationSource は位置サブシステムへの境界です。
type LocationSource interface {
	CurrentLocation() (domain.LocationSample, bool)
	CurrentHeading() (float64, bool)
}

// Identity は現在のプレイヤーIDを解決します。
type Identity interface {
	PlayerID() string
}

// Conn はセッションが駆動するトランスポートの境界です。
type Conn interface {
	Connect(ctx context.Context) error
	Disconnect()
	Send(ctx context.Context, msg *protocol.GameMessage) error
}

// Config はセッションの調整値です。
type Config struct {
	InitialLives      int
	DefaultDamage     int
	RespawnDelay      time.Duration
	StartAttempts     int
	StartRetryDelay   time.Duration
	HeartbeatInterval time.Duration
	StaleAfter        time.Duration
	PushToken         string
}

func DefaultConfig() Config {
	return Config{
		InitialLives:      10,
		DefaultDamage:     1,
		RespawnDelay:      60 * time.Second,
		StartAttempts:     5,
		StartRetryDelay:   3 * time.Second,
		HeartbeatInterval: 60 * time.Second,
		StaleAfter:        60 * time.Second,
	}
}

// GameSession はローカルプレイヤーの権威ある状態機械です。
// 検証済みのヒットを消費してライフ・スコア・リスポーンを遷移させ、
// UIにはイベントバス経由で通知します。
// 状態の変更はすべてミューテックスで直列化されます。
type GameSession struct {
	cfg       Config
	identity  Identity
	location  LocationSource
	directory directory.Directory
	conn      Conn
	bus       *eventbus.Bus
	locations *anticheat.LocationValidator
	heartbeat *Heartbeat

	mu             sync.Mutex
	started        bool
	playerID       string
	lives          int
	alive          bool
	score          domain.GameScore
	respawnPending bool
	respawnTimer   *time.Timer
	stopHeartbeat  context.CancelFunc
}

func New(cfg Config, identity Identity, location LocationSource, dir directory.Directory, conn Conn, bus *eventbus.Bus) (*GameSession, error) {
	if identity == nil || location == nil || dir == nil || conn == nil || bus == nil {
		return nil, ErrInitializationFailed
	}
	return &GameSession{
		cfg:       cfg,
		identity:  identity,
		location:  location,
		directory: dir,
		conn:      conn,
		bus:       bus,
		locations: anticheat.NewLocationValidator(),
		heartbeat: NewHeartbeat(cfg.HeartbeatInterval, cfg.StaleAfter, dir),
	}, nil
}

// StartGame は有効な位置が得られるまでリトライし、セッションをActiveにします。
// 全試行が尽きた場合はセッションを開始せずエラーを返します。
func (s *GameSession) StartGame(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	var located bool
	for attempt := 1; attempt <= s.cfg.StartAttempts; attempt++ {
		if _, ok := s.location.CurrentLocation(); ok {
			located = true
			break
		}
		if attempt == s.cfg.StartAttempts {
			break
		}
		slog.DebugContext(ctx, "session: waiting for location", "attempt", attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.cfg.StartRetryDelay):
		}
	}
	if !located {
		slog.ErrorContext(ctx, "session: start aborted, no valid location", "attempts", s.cfg.StartAttempts)
		return ErrLocationUnavailable
	}

	if err := s.conn.Connect(ctx); err != nil {
		return err
	}

	hbCtx, cancelHB := context.WithCancel(context.WithoutCancel(ctx))
	s.mu.Lock()
	s.started = true
	s.playerID = s.identity.PlayerID()
	s.lives = s.cfg.InitialLives
	s.alive = true
	s.score = domain.GameScore{}
	s.respawnPending = false
	s.stopHeartbeat = cancelHB
	playerID := s.playerID
	s.mu.Unlock()

	go s.heartbeat.Run(hbCtx)
	s.sendJoin(ctx, playerID)

	slog.InfoContext(ctx, "session: started", "playerID", playerID)
	return nil
}

// EndGame はトランスポートを切断し、状態をIdleに戻します。
func (s *GameSession) EndGame() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	playerID := s.playerID
	s.started = false
	s.playerID = ""
	s.lives = 0
	s.alive = false
	s.score = domain.GameScore{}
	s.respawnPending = false
	timer := s.respawnTimer
	s.respawnTimer = nil
	stopHB := s.stopHeartbeat
	s.stopHeartbeat = nil
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if stopHB != nil {
		stopHB()
	}

	ctx := context.Background()
	s.send(ctx, &protocol.GameMessage{Type: protocol.TypeLeave, PlayerID: playerID})
	s.conn.Disconnect()
	slog.Info("session: ended", "playerID", playerID)
}

// Shoot はGPSベースの射撃試行をブロードキャストします。
// 命中判定は受信側 (各ピアのhandleShot) が行います。
func (s *GameSession) Shoot(ctx context.Context, location domain.LocationSample, heading float64) error {
	s.mu.Lock()
	started, alive, playerID := s.started, s.alive, s.playerID
	s.mu.Unlock()
	if !started {
		return ErrNotStarted
	}
	if !alive {
		return ErrNotAlive
	}

	s.send(ctx, &protocol.GameMessage{
		Type:      protocol.TypeShoot,
		PlayerID:  playerID,
		PushToken: s.cfg.PushToken,
		Shoot: &protocol.ShootData{
			HitPlayerID: playerID,
			Damage:      s.cfg.DefaultDamage,
			Location:    locationData(location),
			Heading:     &heading,
		},
	})
	return nil
}

// ShootDrone はARドローンへの射撃をブロードキャストし、ヒットを加点します。
func (s *GameSession) ShootDrone(ctx context.Context, droneID string, reward int) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	playerID := s.playerID
	s.score.Hits++
	hits := s.score.Hits
	s.mu.Unlock()

	s.send(ctx, &protocol.GameMessage{
		Type:     protocol.TypeShootDrone,
		PlayerID: playerID,
		Drone:    &protocol.DroneData{DroneID: droneID, Reward: reward},
	})
	s.bus.Publish(ctx, eventbus.TopicSession, domain.HitConfirmed{TargetID: droneID, Hits: hits})
	return nil
}

// HandleMessage は受信メッセージをタイプごとの状態遷移に振り分けます。
func (s *GameSession) HandleMessage(ctx context.Context, msg *protocol.GameMessage) {
	s.mu.Lock()
	started, playerID := s.started, s.playerID
	s.mu.Unlock()
	if !started {
		return
	}

	switch msg.Type {
	case protocol.TypeJoin, protocol.TypeAnnounced:
		if msg.PlayerID == playerID {
			return
		}
		s.upsertPlayer(msg.PlayerID, msg.Player)

	case protocol.TypeShoot:
		if msg.PlayerID == playerID {
			return
		}
		if msg.Shoot != nil && msg.Shoot.Location != nil {
			heading := 0.0
			if msg.Shoot.Heading != nil {
				heading = *msg.Shoot.Heading
			}
			s.directory.Upsert(msg.PlayerID, coordinate(msg.Shoot.Location), heading)
		}
		s.handleShot(ctx, msg, playerID)

	case protocol.TypeShootConfirmed:
		if msg.Shoot == nil {
			return
		}
		missed := domain.ShotMissed{TargetID: msg.PlayerID}
		if msg.Shoot.Distance != nil {
			missed.Distance = *msg.Shoot.Distance
		}
		if msg.Shoot.Deviation != nil {
			missed.Deviation = *msg.Shoot.Deviation
		}
		s.bus.Publish(ctx, eventbus.TopicSession, missed)

	case protocol.TypeHitConfirmed:
		if msg.SenderID != playerID {
			return
		}
		s.mu.Lock()
		s.score.Hits++
		hits := s.score.Hits
		s.mu.Unlock()
		s.bus.Publish(ctx, eventbus.TopicSession, domain.HitConfirmed{TargetID: msg.PlayerID, Hits: hits})

	case protocol.TypeKill:
		if msg.SenderID != playerID {
			return
		}
		s.mu.Lock()
		s.score.Kills++
		kills := s.score.Kills
		s.mu.Unlock()
		s.bus.Publish(ctx, eventbus.TopicSession, domain.KillConfirmed{TargetID: msg.PlayerID, Kills: kills})

	case protocol.TypeHit:
		if msg.Shoot == nil || msg.Shoot.HitPlayerID != playerID {
			return
		}
		s.applyDamage(ctx, msg.PlayerID, msg.Shoot.Damage)

	case protocol.TypeLeave:
		s.directory.Remove(msg.PlayerID)

	case protocol.TypeShootDrone:
		// 送信専用。受信側では処理しない。

	default:
		slog.WarnContext(ctx, "session: unknown message type", "type", msg.Type)
	}
}

// ConnectionLost はトランスポート切断の通知を受け取ります。
func (s *GameSession) ConnectionLost(err error) {
	s.bus.Publish(context.Background(), eventbus.TopicSession, domain.ConnectionLost{Err: err})
}

// HandleIdentityChange は新しいプレイヤーIDでトランスポートを再接続します。
// ピアが新IDのjoinを受け取れるよう、切断と再接続を必ず行います。
func (s *GameSession) HandleIdentityChange(ctx context.Context, newID string) {
	s.mu.Lock()
	if !s.started || s.playerID == newID {
		s.mu.Unlock()
		return
	}
	s.playerID = newID
	s.mu.Unlock()

	s.conn.Disconnect()
	if err := s.conn.Connect(ctx); err != nil {
		slog.ErrorContext(ctx, "session: reconnect after identity change failed", "err", err)
		return
	}
	s.sendJoin(ctx, newID)
	slog.InfoContext(ctx, "session: identity changed", "playerID", newID)
}

// handleShot は受信したブロードキャスト射撃をローカルで解決します。
// 射手の報告位置・方位と自分の現在位置から方位角と偏差を計算し、
// 偏差がGPS精度の半分以下なら命中と判定します。
func (s *GameSession) handleShot(ctx context.Context, msg *protocol.GameMessage, playerID string) {
	shoot := msg.Shoot
	if shoot == nil || shoot.Location == nil || shoot.Heading == nil {
		return
	}

	s.mu.Lock()
	alive, lives := s.alive, s.lives
	s.mu.Unlock()
	if !alive || lives <= 0 {
		return
	}

	sample, ok := s.location.CurrentLocation()
	if !ok {
		return
	}

	shooter := coordinate(shoot.Location)
	target := sample.Coordinate

	validation := s.locations.ValidateLocations(shooter, target)
	realDistance := validation.Distance
	azimuth := domain.Bearing(shooter, target)
	degreeDiff := domain.AngleBetween(*shoot.Heading, azimuth)
	alpha := degreeDiff * math.Pi / 180
	deviation := realDistance * math.Tan(alpha)
	precision := shoot.Location.Accuracy / 2

	if validation.IsValid && math.Abs(deviation) <= precision {
		_, died, applied := s.applyDamage(ctx, msg.PlayerID, shoot.Damage)
		if !applied {
			return
		}
		confirmType := protocol.TypeHitConfirmed
		if died {
			confirmType = protocol.TypeKill
		}
		s.send(ctx, &protocol.GameMessage{
			Type:     confirmType,
			PlayerID: playerID,
			SenderID: msg.PlayerID,
			Shoot:    &protocol.ShootData{HitPlayerID: playerID},
		})
		return
	}

	// ニアミス: 射手に距離と偏差をフィードバックする
	s.send(ctx, &protocol.GameMessage{
		Type:     protocol.TypeShootConfirmed,
		PlayerID: playerID,
		SenderID: msg.PlayerID,
		Shoot: &protocol.ShootData{
			HitPlayerID: playerID,
			Distance:    &realDistance,
			Deviation:   &deviation,
		},
	})
}

// applyDamage はライフを減算し、0になったらDeadへ遷移させます。
// ライフは0未満にはなりません。死亡中は何も適用しません。
func (s *GameSession) applyDamage(ctx context.Context, shooterID string, damage int) (livesLeft int, died, applied bool) {
	if damage <= 0 {
		damage = s.cfg.DefaultDamage
	}

	s.mu.Lock()
	if !s.started || !s.alive || s.lives <= 0 {
		s.mu.Unlock()
		return s.lives, false, false
	}
	s.lives -= damage
	if s.lives < 0 {
		s.lives = 0
	}
	livesLeft = s.lives
	died = livesLeft == 0
	if died {
		s.alive = false
	}
	s.mu.Unlock()

	s.bus.Publish(ctx, eventbus.TopicSession, domain.PlayerWasHit{
		ShooterID: shooterID,
		Damage:    damage,
		LivesLeft: livesLeft,
	})
	if died {
		s.bus.Publish(ctx, eventbus.TopicSession, domain.PlayerDied{KillerID: shooterID})
		s.scheduleRespawn()
	}
	return livesLeft, died, true
}

// scheduleRespawn はリスポーンタイマーを起動します。
// 既にタイマーが待機中の場合は何もしません (single-flight)。
func (s *GameSession) scheduleRespawn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.respawnPending {
		return
	}
	s.respawnPending = true
	s.respawnTimer = time.AfterFunc(s.cfg.RespawnDelay, s.respawn)
}

func (s *GameSession) respawn() {
	s.mu.Lock()
	if !s.started || !s.respawnPending {
		s.respawnPending = false
		s.mu.Unlock()
		return
	}
	s.respawnPending = false
	s.respawnTimer = nil
	s.lives = s.cfg.InitialLives
	s.alive = true
	s.mu.Unlock()

	// スコアはリスポーンでは維持され、セッション終了時のみリセットされる
	s.bus.Publish(context.Background(), eventbus.TopicSession, domain.PlayerRespawned{})
}

func (s *GameSession) sendJoin(ctx context.Context, playerID string) {
	player := &protocol.PlayerData{}
	if sample, ok := s.location.CurrentLocation(); ok {
		player.Location = locationData(sample)
	}
	if heading, ok := s.location.CurrentHeading(); ok {
		player.Heading = &heading
	}
	s.send(ctx, &protocol.GameMessage{
		Type:      protocol.TypeJoin,
		PlayerID:  playerID,
		PushToken: s.cfg.PushToken,
		Player:    player,
	})
}

// send はfire-and-forgetの送信です。失敗はログのみで再送しません。
func (s *GameSession) send(ctx context.Context, msg *protocol.GameMessage) {
	if err := s.conn.Send(ctx, msg); err != nil {
		slog.WarnContext(ctx, "session: send failed", "type", msg.Type, "err", err)
	}
}

func (s *GameSession) upsertPlayer(playerID string, player *protocol.PlayerData) {
	if player == nil || player.Location == nil {
		return
	}
	heading := 0.0
	if player.Heading != nil {
		heading = *player.Heading
	}
	s.directory.Upsert(playerID, coordinate(player.Location), heading)
}

// Lives は現在のライフを返します。
func (s *GameSession) Lives() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lives
}

// IsAlive はリスポーン待機中でないかを返します。
func (s *GameSession) IsAlive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}

// Score は現在のスコアを返します。
func (s *GameSession) Score() domain.GameScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// PlayerID は現在のプレイヤーIDを返します。未開始時は空文字です。
func (s *GameSession) PlayerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerID
}

// IsStarted はセッションがActiveかを返します。
func (s *GameSession) IsStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func coordinate(loc *protocol.LocationData) domain.Coordinate {
	return domain.Coordinate{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Altitude:  loc.Altitude,
	}
}

func locationData(sample domain.LocationSample) *protocol.LocationData {
	return &protocol.LocationData{
		Latitude:  sample.Latitude,
		Longitude: sample.Longitude,
		Altitude:  sample.Altitude,
		Accuracy:  sample.Accuracy,
	}
}
