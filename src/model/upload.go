package model

import (
	"fmt"
	"time"
)

// UploadRecord is one row of uploads_history.
type UploadRecord struct {
	ID              int64     `json:"id"`
	Filename        string    `json:"filename"`
	Source          string    `json:"source"`
	FileSize        int64     `json:"file_size"`
	ContentHash     string    `json:"content_hash"`
	DecodeStrategy  string    `json:"decode_strategy"`
	SplitConfidence string    `json:"split_confidence"`
	AccountsCount   int       `json:"accounts_count"`
	TradesCount     int       `json:"trades_count"`
	NewTradesCount  int       `json:"new_trades_count"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

// RecordUpload stores rec and sets its ID and UploadedAt.
func RecordUpload(db DBTX, rec *UploadRecord) error {
	rec.UploadedAt = time.Now().UTC()
	res, err := db.Exec(`
	INSERT INTO uploads_history (
		filename, source, file_size, content_hash, decode_strategy, split_confidence,
		accounts_count, trades_count, new_trades_count, uploaded_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Filename, rec.Source, rec.FileSize, rec.ContentHash, rec.DecodeStrategy, rec.SplitConfidence,
		rec.AccountsCount, rec.TradesCount, rec.NewTradesCount, rec.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to record upload %s: %w", rec.Filename, err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read id of upload %s: %w", rec.Filename, err)
	}
	return nil
}

// UpdateUploadCounts stores the trade counts once they are known.
func UpdateUploadCounts(db DBTX, id int64, tradesCount, newTradesCount int) error {
	_, err := db.Exec(`UPDATE uploads_history SET trades_count = ?, new_trades_count = ? WHERE id = ?`, tradesCount, newTradesCount, id)
	if err != nil {
		return fmt.Errorf("failed to update upload %d: %w", id, err)
	}
	return nil
}

// ListUploads returns the most recent uploads first, at most limit of them.
func ListUploads(db DBTX, limit int) ([]UploadRecord, error) {
	rows, err := db.Query(`
	SELECT id, filename, source, file_size, content_hash, decode_strategy, split_confidence,
	       accounts_count, trades_count, new_trades_count, uploaded_at
	FROM uploads_history
	ORDER BY id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	uploads := []UploadRecord{}
	for rows.Next() {
		var rec UploadRecord
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.Source, &rec.FileSize, &rec.ContentHash, &rec.DecodeStrategy,
			&rec.SplitConfidence, &rec.AccountsCount, &rec.TradesCount, &rec.NewTradesCount, &rec.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}
		uploads = append(uploads, rec)
	}
	return uploads, rows.Err()
}
