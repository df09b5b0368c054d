package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Document number prefixes
const (
	PayablePrefix    = "AP"
	ReceivablePrefix = "AR"
)

// nextDocumentNumber atomically increments the day's counter for prefix and
// returns a number of the form PREFIX-YYYYMMDD-00001
func nextDocumentNumber(ctx context.Context, db *gorm.DB, prefix string, date time.Time) (string, error) {
	day := date.Format("20060102")
	var value int64
	err := db.WithContext(ctx).Raw(
		`INSERT INTO document_sequences (prefix, day, last_value, updated_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT (prefix, day) DO UPDATE SET last_value = document_sequences.last_value + 1, updated_at = excluded.updated_at
		 RETURNING last_value`,
		prefix, day, time.Now(),
	).Scan(&value).Error
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s number: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%s-%05d", prefix, day, value), nil
}
