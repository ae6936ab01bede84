package model

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/tradejournal/backend/src/models"
)

const tradingAccountColumns = `id, account_number, account_name, currency, is_default, created_at`

func scanTradingAccount(scan func(dest ...interface{}) error) (*models.TradingAccount, error) {
	var acc models.TradingAccount
	if err := scan(&acc.ID, &acc.AccountNumber, &acc.AccountName, &acc.Currency, &acc.IsDefault, &acc.CreatedAt); err != nil {
		return nil, err
	}
	return &acc, nil
}

// FindOrCreateTradingAccount returns the account with the exact number given, creating it
// when it does not exist yet. The first account ever created becomes the default one.
// Empty name and currency fields of an existing account are filled in from later uploads.
func FindOrCreateTradingAccount(db DBTX, accountNumber, accountName, currency string) (*models.TradingAccount, bool, error) {
	row := db.QueryRow(`SELECT `+tradingAccountColumns+` FROM trading_accounts WHERE account_number = ?`, accountNumber)
	acc, err := scanTradingAccount(row.Scan)
	if err == nil {
		if err := fillAccountDetails(db, acc, accountName, currency); err != nil {
			return nil, false, err
		}
		return acc, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to look up trading account %s: %w", accountNumber, err)
	}

	var existing int
	if err := db.QueryRow(`SELECT COUNT(*) FROM trading_accounts`).Scan(&existing); err != nil {
		return nil, false, fmt.Errorf("failed to count trading accounts: %w", err)
	}

	acc = &models.TradingAccount{
		AccountNumber: accountNumber,
		AccountName:   accountName,
		Currency:      currency,
		IsDefault:     existing == 0,
		CreatedAt:     time.Now().UTC(),
	}
	res, err := db.Exec(`INSERT INTO trading_accounts (account_number, account_name, currency, is_default, created_at) VALUES (?, ?, ?, ?, ?)`,
		acc.AccountNumber, acc.AccountName, acc.Currency, acc.IsDefault, acc.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create trading account %s: %w", accountNumber, err)
	}
	acc.ID, err = res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read id of trading account %s: %w", accountNumber, err)
	}
	return acc, true, nil
}

func fillAccountDetails(db DBTX, acc *models.TradingAccount, accountName, currency string) error {
	if (acc.AccountName != "" || accountName == "") && (acc.Currency != "" || currency == "") {
		return nil
	}
	if acc.AccountName == "" {
		acc.AccountName = accountName
	}
	if acc.Currency == "" {
		acc.Currency = currency
	}
	_, err := db.Exec(`UPDATE trading_accounts SET account_name = ?, currency = ? WHERE id = ?`, acc.AccountName, acc.Currency, acc.ID)
	if err != nil {
		return fmt.Errorf("failed to update trading account %s: %w", acc.AccountNumber, err)
	}
	return nil
}

func GetTradingAccount(db DBTX, id int64) (*models.TradingAccount, error) {
	row := db.QueryRow(`SELECT `+tradingAccountColumns+` FROM trading_accounts WHERE id = ?`, id)
	acc, err := scanTradingAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trading account %d: %w", id, err)
	}
	return acc, nil
}

// ListTradingAccounts returns every account, the default one first.
func ListTradingAccounts(db DBTX) ([]models.TradingAccount, error) {
	rows, err := db.Query(`SELECT ` + tradingAccountColumns + ` FROM trading_accounts ORDER BY is_default DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trading accounts: %w", err)
	}
	defer rows.Close()

	accounts := []models.TradingAccount{}
	for rows.Next() {
		acc, err := scanTradingAccount(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trading account: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	return accounts, rows.Err()
}
