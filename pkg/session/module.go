package session

import (
	"context"
	"time"

	"github.com/cfoust/dragonball/pkg/game"
	"github.com/cfoust/dragonball/pkg/protocol"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	TICK_INTERVAL  = 16 * time.Millisecond
	COMMIT_TIMEOUT = 10 * time.Second
)

// Transport carries frames to and from one client.
type Transport interface {
	// Receive blocks until the next frame arrives from the client.
	Receive(ctx context.Context) ([]byte, error)
	Send(ctx context.Context, data []byte) error
}

type Settings struct {
	TickInterval  time.Duration
	CommitTimeout time.Duration
	// Defaults to a source seeded from the clock
	Random game.Random
	Logger *zerolog.Logger
}

// Session runs one game for one connected client.
type Session struct {
	identity  Identity
	handle    *Handle
	transport Transport
	codec     protocol.Codec
	bridge    Bridge
	logger    zerolog.Logger

	tickInterval  time.Duration
	commitTimeout time.Duration

	// Only touched by the clock
	committed bool
}

func New(identity Identity, transport Transport, codec protocol.Codec, bridge Bridge, settings Settings) *Session {
	rng := settings.Random
	if rng == nil {
		rng = game.NewRandom(time.Now().UnixNano())
	}

	logger := log.Logger
	if settings.Logger != nil {
		logger = *settings.Logger
	}

	tickInterval := settings.TickInterval
	if tickInterval <= 0 {
		tickInterval = TICK_INTERVAL
	}

	commitTimeout := settings.CommitTimeout
	if commitTimeout <= 0 {
		commitTimeout = COMMIT_TIMEOUT
	}

	return &Session{
		identity:      identity,
		handle:        NewHandle(game.NewState(rng)),
		transport:     transport,
		codec:         codec,
		bridge:        bridge,
		logger:        logger,
		tickInterval:  tickInterval,
		commitTimeout: commitTimeout,
	}
}

func (s *Session) Snapshot() game.Snapshot {
	return s.handle.Snapshot()
}

// Run plays the game until the client goes away. Both the input loop and the
// clock stop as soon as either of them fails.
func (s *Session) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return s.pollInput(ctx)
	})

	group.Go(func() error {
		return s.runClock(ctx)
	})

	return group.Wait()
}

func (s *Session) pollInput(ctx context.Context) error {
	for {
		data, err := s.transport.Receive(ctx)
		if err != nil {
			return err
		}

		y, err := s.codec.DecodePosition(data)
		if err != nil {
			s.logger.Debug().Err(err).Msg("ignoring client message")
			continue
		}

		s.handle.SetPlayerPosition(y)
	}
}

func (s *Session) runClock(ctx context.Context) error {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		err := s.step(ctx)
		if err != nil {
			return err
		}
	}
}

// step runs one tick of the clock.
func (s *Session) step(ctx context.Context) error {
	snapshot := s.handle.Tick()

	data, err := s.codec.EncodeState(protocol.NewStateMessage(snapshot))
	if err == nil {
		err = s.transport.Send(ctx, data)
	}

	// The clock keeps running after the game ends so the client can draw
	// the final screen, but the score is only recorded once. The final
	// frame goes out first so a slow bridge does not hold it back.
	if snapshot.GameOver && !s.committed {
		s.committed = true
		s.logger.Info().Int("score", snapshot.Score).Msg("game over")
		s.commit(ctx, snapshot.Score)
	}

	return err
}

func (s *Session) commit(ctx context.Context, final int) {
	if s.bridge == nil {
		return
	}

	// A client closing the tab on the game over screen should not lose
	// their score.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.commitTimeout)
	defer cancel()

	Commit(ctx, s.logger, s.bridge, s.identity, GAME_ID, final)
}
