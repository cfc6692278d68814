package state

import (
	"context"
	"fmt"

	"github.com/cfoust/dragonball/pkg/session"

	opt "github.com/repeale/fp-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/cfoust/dragonball/pkg/state")

// Bridge persists best scores in the database and publishes them to the live
// leaderboard.
type Bridge struct {
	scores  *ScoreStore
	ranking *Ranking
}

var _ session.Bridge = (*Bridge)(nil)

// NewBridge returns a Bridge. ranking may be nil, in which case scores are
// only stored.
func NewBridge(scores *ScoreStore, ranking *Ranking) *Bridge {
	return &Bridge{
		scores:  scores,
		ranking: ranking,
	}
}

func startSpan(ctx context.Context, name string, identity session.Identity, gameID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("user.id", identity.ID),
		attribute.String("game", gameID),
	))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (b *Bridge) ReadBestScore(ctx context.Context, identity session.Identity, gameID string) (opt.Option[int], error) {
	ctx, span := startSpan(ctx, "ReadBestScore", identity, gameID)
	defer span.End()

	score, err := b.scores.Get(ctx, identity.ID, gameID)
	if err != nil {
		return score, fail(span, fmt.Errorf("failed to read best score: %w", err))
	}

	return score, nil
}

func (b *Bridge) CommitBestScore(ctx context.Context, identity session.Identity, gameID string, score int) error {
	ctx, span := startSpan(ctx, "CommitBestScore", identity, gameID)
	defer span.End()
	span.SetAttributes(attribute.Int("score", score))

	err := b.scores.Save(ctx, identity.ID, identity.Name, gameID, score)
	if err != nil {
		return fail(span, fmt.Errorf("failed to save best score: %w", err))
	}

	if b.ranking == nil {
		return nil
	}

	err = b.ranking.Publish(ctx, gameID, identity.Name, score)
	if err != nil {
		return fail(span, fmt.Errorf("failed to publish score: %w", err))
	}

	return nil
}
