package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settingStoreOpen = "is_store_open"

type SettingsRepo struct{ DB *pgxpool.Pool }

// StoreOpen membaca singleton store_settings setiap kali dipanggil,
// tanpa cache - perubahan dari staff langsung kepakai di admission
// check berikutnya. Row yang belum ada dianggap TUTUP (fail-safe),
// bukan buka.
func (r *SettingsRepo) StoreOpen(ctx context.Context) (bool, error) {
	var value string
	err := r.DB.QueryRow(ctx, `SELECT value FROM store_settings WHERE key=$1`, settingStoreOpen).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "true", nil
}

func (r *SettingsRepo) SetStoreOpen(ctx context.Context, open bool) error {
	value := "false"
	if open {
		value = "true"
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO store_settings(key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		settingStoreOpen, value)
	return err
}
