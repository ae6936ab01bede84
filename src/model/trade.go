package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/username/tradejournal/backend/src/models"
)

// InsertTrades stores trades that are not stored yet and reports how many were new.
// A trade is a duplicate when its account already holds a trade with the same hash.
func InsertTrades(db DBTX, trades []models.Trade) (int, error) {
	query := `
	INSERT OR IGNORE INTO trades (
		account_id, hash_id, trade_uid, open_time, close_time, ticket, type, size, item, price,
		exit_price, order_ref, comment, state, commission, fee, swap, profit, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	inserted := 0
	for _, tr := range trades {
		var exitPrice sql.NullFloat64
		if tr.ExitPrice != nil {
			exitPrice = sql.NullFloat64{Float64: *tr.ExitPrice, Valid: true}
		}
		res, err := db.Exec(query,
			tr.AccountID, tr.HashID, tr.ID, tr.OpenTime, tr.CloseTime, tr.Ticket, tr.Type, tr.Size, tr.Item, tr.Price,
			exitPrice, tr.Order, tr.Comment, tr.State, tr.Commission, tr.Fee, tr.Swap, tr.Profit, now)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert trade %s: %w", tr.Ticket, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to read rows affected for trade %s: %w", tr.Ticket, err)
		}
		inserted += int(n)
	}
	return inserted, nil
}

// ListTradesByAccount returns the stored trades of an account in open time order.
func ListTradesByAccount(db DBTX, accountID int64) ([]models.Trade, error) {
	rows, err := db.Query(`
	SELECT account_id, hash_id, trade_uid, open_time, close_time, ticket, type, size, item, price,
	       exit_price, order_ref, comment, state, commission, fee, swap, profit
	FROM trades
	WHERE account_id = ?
	ORDER BY open_time, id`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for account %d: %w", accountID, err)
	}
	defer rows.Close()

	trades := []models.Trade{}
	for rows.Next() {
		var tr models.Trade
		var exitPrice sql.NullFloat64
		if err := rows.Scan(
			&tr.AccountID, &tr.HashID, &tr.ID, &tr.OpenTime, &tr.CloseTime, &tr.Ticket, &tr.Type, &tr.Size, &tr.Item, &tr.Price,
			&exitPrice, &tr.Order, &tr.Comment, &tr.State, &tr.Commission, &tr.Fee, &tr.Swap, &tr.Profit,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trade for account %d: %w", accountID, err)
		}
		if exitPrice.Valid {
			v := exitPrice.Float64
			tr.ExitPrice = &v
		}
		trades = append(trades, tr)
	}
	return trades, rows.Err()
}

// DeleteTradesByAccount removes every stored trade of an account.
func DeleteTradesByAccount(db DBTX, accountID int64) (int64, error) {
	res, err := db.Exec(`DELETE FROM trades WHERE account_id = ?`, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete trades for account %d: %w", accountID, err)
	}
	return res.RowsAffected()
}
