package engine

import (
	"context"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/charmbracelet/log"
)

// ToggleAdmin flips the target's administrator flag. The acting admin confirms with their own
// password, and can never change their own flag.
func (e *Engine) ToggleAdmin(ctx context.Context, actor *database.User, targetID uint, password string) (*database.User, error) {
	if actor.ID == targetID {
		return nil, ErrForbidden
	}
	target, err := e.db.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, storeError(err)
	}
	if !checkPassword(actor.PasswordHash, password) {
		return nil, ErrInvalidCredential
	}

	target.IsAdmin = !target.IsAdmin
	if err := e.db.SetUserAdmin(ctx, target.ID, target.IsAdmin); err != nil {
		return nil, storeError(err)
	}
	log.Info("admin flag changed", "by", actor.Username, "user", target.Username, "is_admin", target.IsAdmin)
	return target, nil
}

// CheckToggleAdmin returns the target of a pending admin toggle, rejecting self-targets.
func (e *Engine) CheckToggleAdmin(ctx context.Context, actor *database.User, targetID uint) (*database.User, error) {
	if actor.ID == targetID {
		return nil, ErrForbidden
	}
	target, err := e.db.GetUserByID(ctx, targetID)
	return target, storeError(err)
}

// DeleteUser removes another user's account. Their posts, registrations and winner records cascade.
func (e *Engine) DeleteUser(ctx context.Context, actor *database.User, targetID uint) error {
	if actor.ID == targetID {
		return ErrForbidden
	}
	target, err := e.db.GetUserByID(ctx, targetID)
	if err != nil {
		return storeError(err)
	}
	if err := e.db.DeleteUser(ctx, target.ID); err != nil {
		return storeError(err)
	}
	log.Info("user deleted", "by", actor.Username, "user", target.Username)
	return nil
}

// ListUsers returns all users, administrators first.
func (e *Engine) ListUsers(ctx context.Context) ([]database.User, error) {
	return e.db.ListUsers(ctx)
}

// PromoteAdmin makes the account with the given e-mail an administrator with a verified address.
func (e *Engine) PromoteAdmin(ctx context.Context, address string) (*database.User, error) {
	user, err := e.db.GetUserByEmail(ctx, address)
	if err != nil {
		return nil, storeError(err)
	}
	if err := e.db.SetUserAdmin(ctx, user.ID, true); err != nil {
		return nil, err
	}
	if !user.EmailVerified {
		if err := e.db.SetEmailVerified(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	user.IsAdmin = true
	user.EmailVerified = true
	return user, nil
}

// RecordWinner appends a placing for a user in a tournament. Several users may share a placing.
func (e *Engine) RecordWinner(ctx context.Context, tournamentID, userID uint, placing int) (*database.Winner, error) {
	if placing < 1 {
		return nil, NewValidationError("placing", "Placing must be at least 1")
	}
	if _, err := e.db.GetTournament(ctx, tournamentID); err != nil {
		return nil, storeError(err)
	}
	user, err := e.db.GetUserByID(ctx, userID)
	if err != nil {
		if storeError(err) == ErrNotFound {
			return nil, NewValidationError("user_id", "Unknown user")
		}
		return nil, err
	}

	w := &database.Winner{Placing: placing, UserID: user.ID, TournamentID: tournamentID}
	if err := e.db.CreateWinner(ctx, w); err != nil {
		return nil, err
	}
	w.User = *user
	log.Info("winner recorded", "tournament", tournamentID, "user", user.Username, "placing", placing)
	return w, nil
}

// DeleteWinner removes a winner record and returns the tournament it belonged to.
func (e *Engine) DeleteWinner(ctx context.Context, id uint) (uint, error) {
	w, err := e.db.GetWinner(ctx, id)
	if err != nil {
		return 0, storeError(err)
	}
	if err := e.db.DeleteWinner(ctx, id); err != nil {
		return 0, storeError(err)
	}
	return w.TournamentID, nil
}

// ListWinners returns the tournament's winners ordered by placing.
func (e *Engine) ListWinners(ctx context.Context, tournamentID uint) ([]database.Winner, error) {
	if _, err := e.db.GetTournament(ctx, tournamentID); err != nil {
		return nil, storeError(err)
	}
	return e.db.ListWinners(ctx, tournamentID)
}

// RemoveRegistration deletes a registration regardless of the tournament's start time.
func (e *Engine) RemoveRegistration(ctx context.Context, tournamentID, userID uint) error {
	if err := e.db.RemoveRegistration(ctx, tournamentID, userID); err != nil {
		return storeError(err)
	}
	log.Info("registration removed by admin", "tournament", tournamentID, "user", userID)
	return nil
}

// DashboardStats returns the counts shown on the admin dashboard.
func (e *Engine) DashboardStats(ctx context.Context) (*database.Stats, error) {
	return e.db.GetStats(ctx)
}
