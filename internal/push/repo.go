package push

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokenRepo struct{ DB *pgxpool.Pool }

// Upsert: unik per NILAI token, bukan per (user, token). Token yang
// didaftarkan ulang dari akun lain pindah kepemilikan ke user baru.
func (r *TokenRepo) Upsert(ctx context.Context, userID, token, platform string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO fcm_tokens(user_id, token, platform, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, updated_at = now()`,
		userID, token, platform)
	return err
}

func (r *TokenRepo) TokensForUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT token FROM fcm_tokens WHERE user_id=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTokens(rows)
}

// StaffTokens: semua device milik user ber-role admin.
func (r *TokenRepo) StaffTokens(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT t.token
		FROM fcm_tokens t
		JOIN customers c ON c.id = t.user_id
		WHERE c.role = 'admin'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTokens(rows)
}

func scanTokens(rows pgx.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
