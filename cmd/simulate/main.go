package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"skirmish/domain"
	"skirmish/protocol"
	"skirmish/transport"
)

// リレーに対してピアの射撃トラフィックを生成する負荷・結合試験用ツール。
func main() {
	var (
		addrFlag     = flag.String("addr", "ws://localhost:9090/ws", "relay endpoint")
		playersFlag  = flag.Int("players", 4, "number of simulated players")
		intervalFlag = flag.Duration("interval", 2*time.Second, "shot interval per player")
		latFlag      = flag.Float64("lat", 0, "base latitude")
		lonFlag      = flag.Float64("lon", 0, "base longitude")
		damageFlag   = flag.Int("damage", 1, "damage per shot")
	)
	flag.Parse()

	if *playersFlag <= 0 {
		log.Fatalf("players must be positive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var shots, hits, kills int64
	var wg sync.WaitGroup
	wg.Add(*playersFlag)

	for i := 0; i < *playersFlag; i++ {
		go func(workerID int) {
			defer wg.Done()
			if err := runPlayer(ctx, workerID, *addrFlag, *intervalFlag, *latFlag, *lonFlag, *damageFlag, &shots, &hits, &kills); err != nil {
				log.Printf("[player %d] stopped: %v", workerID, err)
			}
		}(i)
	}

	wg.Wait()
	log.Printf("simulation complete (shots=%d hits=%d kills=%d)",
		atomic.LoadInt64(&shots), atomic.LoadInt64(&hits), atomic.LoadInt64(&kills))
}

func runPlayer(ctx context.Context, workerID int, addr string, interval time.Duration, baseLat, baseLon float64, damage int, shots, hits, kills *int64) error {
	playerID := fmt.Sprintf("sim-%d", workerID)

	tr, err := transport.WebSocketDialer{}.Dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer tr.Close(1000, "simulation done")

	// 各ピアを基準点から数メートル散らして配置する
	position := jitter(domain.Coordinate{Latitude: baseLat, Longitude: baseLon}, 20)
	heading := rand.Float64() * 360

	join, err := protocol.Encode(&protocol.GameMessage{
		Type:     protocol.TypeJoin,
		PlayerID: playerID,
		Player: &protocol.PlayerData{
			Location: &protocol.LocationData{Latitude: position.Latitude, Longitude: position.Longitude, Accuracy: 10},
			Heading:  &heading,
		},
	})
	if err != nil {
		return err
	}
	if err := tr.Write(ctx, join); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	// 自分宛の確認メッセージを数える受信ループ
	go func() {
		for {
			data, err := tr.Read(ctx)
			if err != nil {
				return
			}
			msg, err := protocol.Decode(data)
			if err != nil {
				continue
			}
			if msg.SenderID != playerID {
				continue
			}
			switch msg.Type {
			case protocol.TypeHitConfirmed:
				atomic.AddInt64(hits, 1)
			case protocol.TypeKill:
				atomic.AddInt64(kills, 1)
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			leave, err := protocol.Encode(&protocol.GameMessage{Type: protocol.TypeLeave, PlayerID: playerID})
			if err == nil {
				writeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				_ = tr.Write(writeCtx, leave)
				cancel()
			}
			return nil
		case <-ticker.C:
			heading = rand.Float64() * 360
			shot, err := protocol.Encode(&protocol.GameMessage{
				Type:     protocol.TypeShoot,
				PlayerID: playerID,
				Shoot: &protocol.ShootData{
					HitPlayerID: playerID,
					Damage:      damage,
					Location:    &protocol.LocationData{Latitude: position.Latitude, Longitude: position.Longitude, Accuracy: 10},
					Heading:     &heading,
				},
			})
			if err != nil {
				return err
			}
			if err := tr.Write(ctx, shot); err != nil {
				return fmt.Errorf("shoot: %w", err)
			}
			atomic.AddInt64(shots, 1)
		}
	}
}

// jitter は基準点から最大radiusメートルずらした座標を返します。
func jitter(base domain.Coordinate, radius float64) domain.Coordinate {
	const metersPerDegree = 111_195.0
	return domain.Coordinate{
		Latitude:  base.Latitude + (rand.Float64()*2-1)*radius/metersPerDegree,
		Longitude: base.Longitude + (rand.Float64()*2-1)*radius/metersPerDegree,
	}
}
