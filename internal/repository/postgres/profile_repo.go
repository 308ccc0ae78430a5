package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chamasoft/notify-engine/internal/domain/profile"
)

var _ profile.Repo = (*ProfileRepo)(nil)

type ProfileRepo struct{ db *DB }

func NewProfileRepo(db *DB) *ProfileRepo { return &ProfileRepo{db: db} }

const qProfileByID = `
SELECT id, email, phone_number, notification_preferences
FROM profiles
WHERE id = $1;`

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var (
		p     profile.Profile
		email *string
		phone *string
		prefs []byte
	)
	if err := r.db.Pool.QueryRow(ctx, qProfileByID, id).
		Scan(&p.ID, &email, &phone, &prefs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, profile.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.Email = strOrEmpty(email)
	p.PhoneNumber = strOrEmpty(phone)

	// A profile that never stored preferences keeps the zero value:
	// every channel disabled.
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &p.Prefs); err != nil {
			return nil, fmt.Errorf("decode notification preferences: %w", err)
		}
	}
	return &p, nil
}
