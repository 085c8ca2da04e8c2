package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"skirmish/config"
	"skirmish/directory"
	"skirmish/domain"
	"skirmish/eventbus"
	"skirmish/identity"
	"skirmish/location"
	"skirmish/session"
	"skirmish/transport"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		latFlag     = flag.Float64("lat", 0, "initial latitude")
		lonFlag     = flag.Float64("lon", 0, "initial longitude")
		headingFlag = flag.Float64("heading", 0, "initial heading in degrees")
		shootEvery  = flag.Duration("shoot-every", 0, "auto-fire interval (0 disables)")
	)
	flag.Parse()

	cfg := config.Load()

	deviceID, err := identity.LoadDeviceID(cfg.DeviceIDPath)
	if err != nil {
		log.Fatalf("failed to load device id: %v", err)
	}
	provider := identity.NewProvider(deviceID)

	source := location.NewStaticSource(domain.LocationSample{
		Coordinate: domain.Coordinate{Latitude: *latFlag, Longitude: *lonFlag},
		Accuracy:   10,
		Timestamp:  time.Now(),
	}, *headingFlag)

	bus := eventbus.New()
	dir := directory.NewMemoryDirectory()
	client := transport.NewClient(transport.WebSocketDialer{}, cfg.Endpoint)

	sess, err := session.New(cfg.Session, provider, source, dir, client, bus)
	if err != nil {
		log.Fatalf("failed to create session: %v", err)
	}
	client.SetReceiver(sess)
	provider.OnChange(func(newID string) {
		sess.HandleIdentityChange(ctx, newID)
	})

	if err := sess.StartGame(ctx); err != nil {
		log.Fatalf("failed to start game: %v", err)
	}
	slog.InfoContext(ctx, "game started", "playerID", sess.PlayerID(), "endpoint", cfg.Endpoint)

	events := bus.Subscribe(eventbus.TopicSession)

	if *shootEvery > 0 {
		go func() {
			ticker := time.NewTicker(*shootEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					sample, ok := source.CurrentLocation()
					if !ok {
						continue
					}
					heading, _ := source.CurrentHeading()
					if err := sess.Shoot(ctx, sample, heading); err != nil {
						slog.WarnContext(ctx, "shoot failed", "err", err)
					}
				}
			}
		}()
	}

LOOP:
	for {
		select {
		case <-ctx.Done():
			break LOOP
		case ev := <-events:
			logEvent(ctx, ev)
		}
	}

	slog.InfoContext(ctx, "shutdown initiated")
	sess.EndGame()
	slog.InfoContext(ctx, "session shutdown complete")
}

func logEvent(ctx context.Context, ev domain.Event) {
	switch e := ev.(type) {
	case domain.PlayerWasHit:
		slog.InfoContext(ctx, "hit by player", "shooterID", e.ShooterID, "damage", e.Damage, "livesLeft", e.LivesLeft)
	case domain.PlayerDied:
		slog.InfoContext(ctx, "player died", "killerID", e.KillerID)
	case domain.PlayerRespawned:
		slog.InfoContext(ctx, "player respawned")
	case domain.HitConfirmed:
		slog.InfoContext(ctx, "hit confirmed", "targetID", e.TargetID, "hits", e.Hits)
	case domain.KillConfirmed:
		slog.InfoContext(ctx, "kill confirmed", "targetID", e.TargetID, "kills", e.Kills)
	case domain.ShotMissed:
		slog.InfoContext(ctx, "shot missed", "targetID", e.TargetID, "distance", e.Distance, "deviation", e.Deviation)
	case domain.ConnectionLost:
		slog.WarnContext(ctx, "connection lost", "err", e.Err)
	}
}
