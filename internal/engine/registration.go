package engine

import (
	"context"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/charmbracelet/log"
)

// Register signs user up for the tournament. It fails with ErrTournamentClosed once the
// tournament has started, ErrAlreadyRegistered for a second signup and ErrCapacityExceeded
// when every slot is taken. The live registration count is checked on every call.
func (e *Engine) Register(ctx context.Context, user *database.User, tournamentID uint) error {
	reg, err := e.db.RegisterPlayer(ctx, tournamentID, user.ID, e.clock())
	if err != nil {
		return storeError(err)
	}
	log.Info("player registered", "user", user.Username, "tournament", tournamentID, "registration", reg.ID)
	return nil
}

// Unregister withdraws user from a tournament that has not started yet.
func (e *Engine) Unregister(ctx context.Context, user *database.User, tournamentID uint) error {
	if err := e.db.UnregisterPlayer(ctx, tournamentID, user.ID, e.clock()); err != nil {
		return storeError(err)
	}
	log.Info("player unregistered", "user", user.Username, "tournament", tournamentID)
	return nil
}

// TournamentDetails is everything shown on a tournament page.
type TournamentDetails struct {
	Tournament    *database.Tournament
	Registrations []database.Registration
	Winners       []database.Winner
	// IsRegistered is set for the viewing user, if any.
	IsRegistered bool
	Started      bool
}

// SlotsLeft returns the number of free places.
func (d *TournamentDetails) SlotsLeft() int {
	return max(d.Tournament.MaxPlayers-len(d.Registrations), 0)
}

// GetTournamentDetails loads a tournament with its registrations and winners.
// viewer may be nil for anonymous visitors.
func (e *Engine) GetTournamentDetails(ctx context.Context, id uint, viewer *database.User) (*TournamentDetails, error) {
	t, err := e.db.GetTournament(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	regs, err := e.db.ListRegistrations(ctx, id)
	if err != nil {
		return nil, err
	}
	winners, err := e.db.ListWinners(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &TournamentDetails{
		Tournament:    t,
		Registrations: regs,
		Winners:       winners,
		Started:       t.HasStarted(e.clock()),
	}
	if viewer != nil {
		for _, r := range regs {
			if r.UserID == viewer.ID {
				d.IsRegistered = true
				break
			}
		}
	}
	return d, nil
}
