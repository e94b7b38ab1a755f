package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Tournament is a club event players can sign up for.
// Deleting a tournament cascades to its registrations and winners.
type Tournament struct {
	ID          uint `gorm:"primarykey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Title       string    `gorm:"size:120;not null"`
	Description string    `gorm:"type:text;not null"`
	BannerImage string    `gorm:"size:255;not null;default:default.png"`
	StartDate   time.Time `gorm:"not null;index"`
	EndDate     *time.Time
	MaxPlayers  int    `gorm:"not null"`
	Location    string `gorm:"size:100;not null"`
}

// HasStarted reports whether registration for the tournament is closed at now.
func (t *Tournament) HasStarted(now time.Time) bool {
	return !now.Before(t.StartDate)
}

func (c *Client) CreateTournament(ctx context.Context, t *Tournament) error {
	if t.BannerImage == "" {
		t.BannerImage = DefaultImage
	}
	if err := c.db.WithContext(ctx).Create(t).Error; err != nil {
		log.Error("failed to create tournament", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetTournament(ctx context.Context, id uint) (*Tournament, error) {
	var t Tournament
	if err := c.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("failed to get tournament", "error", err)
		}
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTournament(ctx context.Context, t *Tournament) error {
	return c.db.WithContext(ctx).Model(t).
		Select("Title", "Description", "BannerImage", "StartDate", "EndDate", "MaxPlayers", "Location").
		Updates(t).Error
}

// DeleteTournament removes the tournament. Registrations and winners cascade.
func (c *Client) DeleteTournament(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Delete(&Tournament{}, id)
	if res.Error != nil {
		log.Error("failed to delete tournament", "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *Client) DeleteAllTournaments(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Tournament{})
	return res.RowsAffected, res.Error
}

// UpcomingTournaments returns tournaments starting at or after now, soonest first.
// A limit <= 0 returns all of them.
func (c *Client) UpcomingTournaments(ctx context.Context, now time.Time, limit int) ([]Tournament, error) {
	q := c.db.WithContext(ctx).
		Where("start_date >= ?", now.UTC()).
		Order("start_date ASC").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ts []Tournament
	return ts, q.Find(&ts).Error
}

// PastTournaments returns one page of tournaments that started before now, most recent first.
func (c *Client) PastTournaments(ctx context.Context, now time.Time, page, perPage int) (*Page[Tournament], error) {
	page, perPage = normalizePage(page, perPage)
	base := c.db.WithContext(ctx).Model(&Tournament{}).Where("start_date < ?", now.UTC())

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var ts []Tournament
	err := c.db.WithContext(ctx).
		Where("start_date < ?", now.UTC()).
		Order("start_date DESC").
		Order("id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&ts).Error
	if err != nil {
		return nil, err
	}
	return &Page[Tournament]{Items: ts, Page: page, PerPage: perPage, Total: total}, nil
}

// ListTournaments returns every tournament, latest start first.
func (c *Client) ListTournaments(ctx context.Context) ([]Tournament, error) {
	var ts []Tournament
	return ts, c.db.WithContext(ctx).Order("start_date DESC").Order("id DESC").Find(&ts).Error
}
