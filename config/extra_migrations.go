package config

import "gorm.io/gorm"

// CreateReservationOverlapIndex creates the partial index backing the
// ledger's three-clause overlap query.
//
// Why partial: availability checks only ever read active rows, and on a
// busy product the terminal rows (completed/cancelled/expired) quickly
// outnumber the active ones. Indexing only status = 'active' keeps the
// overlap scan small no matter how much history accumulates.
func CreateReservationOverlapIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_active_window
		ON reservations (product_id, start_date, end_date)
		WHERE status = 'active';
	`).Error
}
