package database

import (
	"context"
	"time"
)

// DB is the store used by the engine. Client is the gorm implementation.
type DB interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByLogin(ctx context.Context, identifier string) (*User, error)
	UsernameTaken(ctx context.Context, username string, exceptID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
	UpdateUser(ctx context.Context, user *User) error
	SetUserAdmin(ctx context.Context, id uint, isAdmin bool) error
	SetEmailVerified(ctx context.Context, id uint) error
	SetPasswordHash(ctx context.Context, id uint, hash string) error
	DeleteUser(ctx context.Context, id uint) error
	ListUsers(ctx context.Context) ([]User, error)

	// Posts
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id uint) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id uint) error
	DeleteAllPosts(ctx context.Context) (int64, error)
	LatestPosts(ctx context.Context, limit int) ([]Post, error)
	ListPosts(ctx context.Context, page, perPage int) (*Page[Post], error)

	// Tournaments
	CreateTournament(ctx context.Context, t *Tournament) error
	GetTournament(ctx context.Context, id uint) (*Tournament, error)
	UpdateTournament(ctx context.Context, t *Tournament) error
	DeleteTournament(ctx context.Context, id uint) error
	DeleteAllTournaments(ctx context.Context) (int64, error)
	UpcomingTournaments(ctx context.Context, now time.Time, limit int) ([]Tournament, error)
	PastTournaments(ctx context.Context, now time.Time, page, perPage int) (*Page[Tournament], error)
	ListTournaments(ctx context.Context) ([]Tournament, error)

	// Registrations
	RegisterPlayer(ctx context.Context, tournamentID, userID uint, now time.Time) (*Registration, error)
	UnregisterPlayer(ctx context.Context, tournamentID, userID uint, now time.Time) error
	RemoveRegistration(ctx context.Context, tournamentID, userID uint) error
	IsRegistered(ctx context.Context, tournamentID, userID uint) (bool, error)
	ListRegistrations(ctx context.Context, tournamentID uint) ([]Registration, error)
	CountRegistrations(ctx context.Context, tournamentID uint) (int64, error)

	// Winners
	CreateWinner(ctx context.Context, w *Winner) error
	GetWinner(ctx context.Context, id uint) (*Winner, error)
	DeleteWinner(ctx context.Context, id uint) error
	ListWinners(ctx context.Context, tournamentID uint) ([]Winner, error)

	// Stats
	Count(ctx context.Context, model any) (int64, error)
	GetStats(ctx context.Context) (*Stats, error)

	Migrate() error
	Close() error
}
