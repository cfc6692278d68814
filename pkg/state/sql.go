package state

import (
	"context"
	"errors"
	"time"

	opt "github.com/repeale/fp-go/option"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Entity struct {
	ID uint `gorm:"primaryKey"`
}

// The best score a user has reached in one game.
type BestScore struct {
	Entity

	UserID string `gorm:"not null;size:64;uniqueIndex:idx_user_game"`
	Game   string `gorm:"not null;size:32;uniqueIndex:idx_user_game"`
	// Most recent display name
	Username  string `gorm:"size:64"`
	Score     int    `gorm:"not null"`
	UpdatedAt time.Time
}

func InitDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&BestScore{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

type ScoreStore struct {
	db *gorm.DB
}

func NewScoreStore(db *gorm.DB) *ScoreStore {
	return &ScoreStore{db: db}
}

func (s *ScoreStore) Get(ctx context.Context, userID string, game string) (opt.Option[int], error) {
	var row BestScore
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND game = ?", userID, game).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return opt.None[int](), nil
	}
	if err != nil {
		return opt.None[int](), err
	}

	return opt.Some(row.Score), nil
}

// Save stores score for the user unless they already have a higher one.
func (s *ScoreStore) Save(ctx context.Context, userID string, username string, game string, score int) error {
	row := BestScore{
		UserID:    userID,
		Game:      game,
		Username:  username,
		Score:     score,
		UpdatedAt: time.Now(),
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "game"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":      gorm.Expr("MAX(best_scores.score, excluded.score)"),
			"username":   gorm.Expr("excluded.username"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&row).Error
}
