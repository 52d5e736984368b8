package payments

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArtifactStore menyimpan file bukti pembayaran dan mengembalikan path
// relatifnya.
type ArtifactStore interface {
	Save(ctx context.Context, orderID, filename string, r io.Reader) (string, error)
}

// DiskStore menyimpan artifact di filesystem lokal, path
// <orderID>/<unix_nano>_<filename>. Timestamp menjamin path selalu
// fresh antar retry, jadi re-submission tidak pernah collide.
type DiskStore struct{ Dir string }

func (d *DiskStore) Save(ctx context.Context, orderID, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := filepath.Join(orderID, fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(filename)))
	full := filepath.Join(d.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return rel, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "proof"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "proof"
	}
	return b.String()
}
