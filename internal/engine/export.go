package engine

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
)

// DateTimeLayout is the format of registration timestamps in exports.
const DateTimeLayout = "2006-01-02 15:04:05"

// RegistrationRecord is one row of a registrations export.
type RegistrationRecord struct {
	Username            string `json:"username"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	TournamentID        uint   `json:"tournament_id"`
	TournamentTitle     string `json:"tournament_title"`
	TournamentStartDate string `json:"tournament_start_date"`
	RegistrationDate    string `json:"registration_date"`
	// Paid is always false, payments are not tracked.
	Paid bool `json:"paid"`
}

// ExportRegistrations returns the tournament's registrations as records.
func (e *Engine) ExportRegistrations(ctx context.Context, tournamentID uint) (*database.Tournament, []RegistrationRecord, error) {
	t, err := e.db.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, nil, storeError(err)
	}
	regs, err := e.db.ListRegistrations(ctx, tournamentID)
	if err != nil {
		return nil, nil, err
	}

	records := make([]RegistrationRecord, 0, len(regs))
	for _, r := range regs {
		records = append(records, RegistrationRecord{
			Username:            r.User.Username,
			FirstName:           r.User.FirstName,
			LastName:            r.User.LastName,
			TournamentID:        t.ID,
			TournamentTitle:     t.Title,
			TournamentStartDate: t.StartDate.UTC().Format(DateLayout),
			RegistrationDate:    r.RegistrationDate.UTC().Format(DateTimeLayout),
		})
	}
	return t, records, nil
}

// MarshalRecords encodes records as indented JSON, leaving non-ASCII and HTML characters as they are.
func MarshalRecords(records []RegistrationRecord) ([]byte, error) {
	if records == nil {
		records = []RegistrationRecord{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
