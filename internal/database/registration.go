package database

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrTournamentFull is returned when the tournament has no free slot left.
	ErrTournamentFull = errors.New("tournament is full")
	// ErrTournamentStarted is returned when the tournament start time has been reached.
	ErrTournamentStarted = errors.New("tournament has already started")
	// ErrAlreadyRegistered is returned when the user already holds a registration.
	ErrAlreadyRegistered = errors.New("already registered")
	// ErrNotRegistered is returned when the user holds no registration.
	ErrNotRegistered = errors.New("not registered")
)

// Registration links a user to a tournament. A user can register at most once per tournament.
type Registration struct {
	ID               uint       `gorm:"primarykey"`
	UserID           uint       `gorm:"not null;uniqueIndex:idx_registration_user_tournament"`
	TournamentID     uint       `gorm:"not null;uniqueIndex:idx_registration_user_tournament;index"`
	RegistrationDate time.Time  `gorm:"not null"`
	User             User       `gorm:"constraint:OnDelete:CASCADE;"`
	Tournament       Tournament `gorm:"constraint:OnDelete:CASCADE;"`
}

// RegisterPlayer reserves a slot for the user. The timing, duplicate and capacity checks and the
// insert happen in one transaction holding a lock on the tournament row, so concurrent calls
// cannot push the registration count past MaxPlayers.
func (c *Client) RegisterPlayer(ctx context.Context, tournamentID, userID uint, now time.Time) (*Registration, error) {
	var reg *Registration
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := c.lockTournament(tx, tournamentID)
		if err != nil {
			return err
		}
		if t.HasStarted(now) {
			return ErrTournamentStarted
		}

		var existing int64
		if err := tx.Model(&Registration{}).
			Where("tournament_id = ? AND user_id = ?", tournamentID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		var count int64
		if err := tx.Model(&Registration{}).Where("tournament_id = ?", tournamentID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(t.MaxPlayers) {
			return ErrTournamentFull
		}

		r := Registration{
			UserID:           userID,
			TournamentID:     tournamentID,
			RegistrationDate: now.UTC(),
		}
		if err := tx.Omit(clause.Associations).Create(&r).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}
		reg = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// UnregisterPlayer drops the user's registration as long as the tournament has not started.
func (c *Client) UnregisterPlayer(ctx context.Context, tournamentID, userID uint, now time.Time) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := c.lockTournament(tx, tournamentID)
		if err != nil {
			return err
		}

		var reg Registration
		if err := tx.Where("tournament_id = ? AND user_id = ?", tournamentID, userID).First(&reg).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotRegistered
			}
			return err
		}
		if t.HasStarted(now) {
			return ErrTournamentStarted
		}
		return tx.Delete(&reg).Error
	})
}

// RemoveRegistration deletes a registration without any timing check.
func (c *Client) RemoveRegistration(ctx context.Context, tournamentID, userID uint) error {
	res := c.db.WithContext(ctx).
		Where("tournament_id = ? AND user_id = ?", tournamentID, userID).
		Delete(&Registration{})
	if res.Error != nil {
		log.Error("failed to remove registration", "error", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotRegistered
	}
	return nil
}

func (c *Client) IsRegistered(ctx context.Context, tournamentID, userID uint) (bool, error) {
	return c.exists(ctx, &Registration{}, "tournament_id = ? AND user_id = ?", tournamentID, userID)
}

// ListRegistrations returns the tournament's registrations with their users, oldest first.
func (c *Client) ListRegistrations(ctx context.Context, tournamentID uint) ([]Registration, error) {
	var regs []Registration
	err := c.db.WithContext(ctx).
		Preload("User").
		Where("tournament_id = ?", tournamentID).
		Order("registration_date ASC").
		Order("id ASC").
		Find(&regs).Error
	return regs, err
}

func (c *Client) CountRegistrations(ctx context.Context, tournamentID uint) (int64, error) {
	var n int64
	err := c.db.WithContext(ctx).Model(&Registration{}).Where("tournament_id = ?", tournamentID).Count(&n).Error
	return n, err
}

func (c *Client) lockTournament(tx *gorm.DB, id uint) (*Tournament, error) {
	q := tx
	if c.isPostgres() {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var t Tournament
	if err := q.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
