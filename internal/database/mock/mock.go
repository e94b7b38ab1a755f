package mock

import (
	"context"
	"sync"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
)

// MockDB wraps a database.DB and lets tests inject failures into single operations.
// Calls without an injected error are passed through to the wrapped store.
type MockDB struct {
	database.DB

	mu sync.RWMutex

	// Error simulation
	CreateUserError     error
	GetUserByIDError    error
	GetUserByLoginError error
	DeleteUserError     error
	ListUsersError      error
	CreatePostError     error
	GetTournamentError  error
	RegisterPlayerError error
	ListWinnersError    error
	GetStatsError       error

	calls map[string]int
}

// NewMockDB creates a MockDB on top of db.
func NewMockDB(db database.DB) *MockDB {
	return &MockDB{
		DB:    db,
		calls: make(map[string]int),
	}
}

// Reset clears all injected errors and call counts.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateUserError = nil
	m.GetUserByIDError = nil
	m.GetUserByLoginError = nil
	m.DeleteUserError = nil
	m.ListUsersError = nil
	m.CreatePostError = nil
	m.GetTournamentError = nil
	m.RegisterPlayerError = nil
	m.ListWinnersError = nil
	m.GetStatsError = nil
	m.calls = make(map[string]int)
}

// Calls returns how often the named operation was invoked.
func (m *MockDB) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

func (m *MockDB) record(op string, injected *error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	return *injected
}

// User operations

func (m *MockDB) CreateUser(ctx context.Context, user *database.User) error {
	if err := m.record("CreateUser", &m.CreateUserError); err != nil {
		return err
	}
	return m.DB.CreateUser(ctx, user)
}

func (m *MockDB) GetUserByID(ctx context.Context, id uint) (*database.User, error) {
	if err := m.record("GetUserByID", &m.GetUserByIDError); err != nil {
		return nil, err
	}
	return m.DB.GetUserByID(ctx, id)
}

func (m *MockDB) GetUserByLogin(ctx context.Context, identifier string) (*database.User, error) {
	if err := m.record("GetUserByLogin", &m.GetUserByLoginError); err != nil {
		return nil, err
	}
	return m.DB.GetUserByLogin(ctx, identifier)
}

func (m *MockDB) DeleteUser(ctx context.Context, id uint) error {
	if err := m.record("DeleteUser", &m.DeleteUserError); err != nil {
		return err
	}
	return m.DB.DeleteUser(ctx, id)
}

func (m *MockDB) ListUsers(ctx context.Context) ([]database.User, error) {
	if err := m.record("ListUsers", &m.ListUsersError); err != nil {
		return nil, err
	}
	return m.DB.ListUsers(ctx)
}

// Post operations

func (m *MockDB) CreatePost(ctx context.Context, post *database.Post) error {
	if err := m.record("CreatePost", &m.CreatePostError); err != nil {
		return err
	}
	return m.DB.CreatePost(ctx, post)
}

// Tournament operations

func (m *MockDB) GetTournament(ctx context.Context, id uint) (*database.Tournament, error) {
	if err := m.record("GetTournament", &m.GetTournamentError); err != nil {
		return nil, err
	}
	return m.DB.GetTournament(ctx, id)
}

func (m *MockDB) RegisterPlayer(ctx context.Context, tournamentID, userID uint, now time.Time) (*database.Registration, error) {
	if err := m.record("RegisterPlayer", &m.RegisterPlayerError); err != nil {
		return nil, err
	}
	return m.DB.RegisterPlayer(ctx, tournamentID, userID, now)
}

func (m *MockDB) ListWinners(ctx context.Context, tournamentID uint) ([]database.Winner, error) {
	if err := m.record("ListWinners", &m.ListWinnersError); err != nil {
		return nil, err
	}
	return m.DB.ListWinners(ctx, tournamentID)
}

// Stats

func (m *MockDB) GetStats(ctx context.Context) (*database.Stats, error) {
	if err := m.record("GetStats", &m.GetStatsError); err != nil {
		return nil, err
	}
	return m.DB.GetStats(ctx)
}
