package database

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Winner records a user's placing in a tournament. Placings are not unique, ties share one.
type Winner struct {
	ID           uint       `gorm:"primarykey"`
	Placing      int        `gorm:"not null"`
	UserID       uint       `gorm:"not null;index"`
	TournamentID uint       `gorm:"not null;index"`
	User         User       `gorm:"constraint:OnDelete:CASCADE;"`
	Tournament   Tournament `gorm:"constraint:OnDelete:CASCADE;"`
}

func (c *Client) CreateWinner(ctx context.Context, w *Winner) error {
	if err := c.db.WithContext(ctx).Omit(clause.Associations).Create(w).Error; err != nil {
		log.Error("failed to create winner", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetWinner(ctx context.Context, id uint) (*Winner, error) {
	var w Winner
	if err := c.db.WithContext(ctx).Preload("User").First(&w, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get winner", "error", err)
		}
		return nil, err
	}
	return &w, nil
}

func (c *Client) DeleteWinner(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Delete(&Winner{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListWinners returns the tournament's winners ordered by placing.
func (c *Client) ListWinners(ctx context.Context, tournamentID uint) ([]Winner, error) {
	var ws []Winner
	err := c.db.WithContext(ctx).
		Preload("User").
		Where("tournament_id = ?", tournamentID).
		Order("placing ASC").
		Order("id ASC").
		Find(&ws).Error
	return ws, err
}
