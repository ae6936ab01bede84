// backend/src/services/upload_service.go
package services

import (
	"bytes"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/model"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers"
	"github.com/username/tradejournal/backend/src/processors"
	"github.com/username/tradejournal/backend/src/security/validation"
)

const (
	ckParsedEmail          = "parsed_email_%s_%s"
	ckTradingAccounts      = "trading_accounts"
	ckAccountTrades        = "account_trades_%d"
	ckAccountFees          = "account_fees_%d"
	ckAccountSummary       = "account_summary_%d"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type uploadServiceImpl struct {
	db             *sql.DB
	tradeProcessor processors.TradeProcessor
	feeProcessor   processors.FeeProcessor
	parseCache     *cache.Cache
	reportCache    *cache.Cache
}

func NewUploadService(
	db *sql.DB,
	tradeProcessor processors.TradeProcessor,
	feeProcessor processors.FeeProcessor,
	parseCache *cache.Cache,
	reportCache *cache.Cache,
) UploadService {
	return &uploadServiceImpl{
		db:             db,
		tradeProcessor: tradeProcessor,
		feeProcessor:   feeProcessor,
		parseCache:     parseCache,
		reportCache:    reportCache,
	}
}

// parse returns the parse result of content, reusing the result of an earlier upload of
// the same bytes from the same source.
func (s *uploadServiceImpl) parse(content []byte, source string) (*models.SmartParsedEmail, string, error) {
	sum := sha256.Sum256(content)
	contentHash := hex.EncodeToString(sum[:])
	cacheKey := fmt.Sprintf(ckParsedEmail, strings.ToLower(source), contentHash)
	if cached, found := s.parseCache.Get(cacheKey); found {
		logger.L.Debug("Parse cache hit", "contentHash", contentHash)
		return cached.(*models.SmartParsedEmail), contentHash, nil
	}

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, contentHash, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	parsed, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, contentHash, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	s.parseCache.Set(cacheKey, parsed, cache.DefaultExpiration)
	return parsed, contentHash, nil
}

func (s *uploadServiceImpl) readAndParse(fileReader io.Reader, source, filename string) (*models.SmartParsedEmail, string, int64, error) {
	if err := validation.ValidateFileName(filename); err != nil {
		return nil, "", 0, fmt.Errorf("%w: %w", ErrUnsupportedFile, err)
	}
	content, err := io.ReadAll(fileReader)
	if err != nil {
		return nil, "", 0, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	parsed, contentHash, err := s.parse(content, source)
	if err != nil {
		return nil, "", 0, err
	}
	if len(parsed.Accounts) == 0 {
		return nil, contentHash, 0, ErrNoAccountsFound
	}
	return parsed, contentHash, int64(len(content)), nil
}

func (s *uploadServiceImpl) PreviewUpload(fileReader io.Reader, source, filename string) (*models.SmartParsedEmail, error) {
	parsed, _, _, err := s.readAndParse(fileReader, source, filename)
	if err != nil {
		return nil, err
	}
	logger.L.Info("Upload previewed", "filename", filename, "accounts", parsed.TotalAccounts, "trades", parsed.TotalTrades)
	return parsed, nil
}

func (s *uploadServiceImpl) ProcessUpload(fileReader io.Reader, source, filename string, filesize int64) (*UploadResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessUpload START", "source", source, "filename", filename)

	parsed, contentHash, readSize, err := s.readAndParse(fileReader, source, filename)
	if err != nil {
		return nil, err
	}
	if filesize <= 0 {
		filesize = readSize
	}

	dbTx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	upload := &model.UploadRecord{
		Filename:        filename,
		Source:          source,
		FileSize:        filesize,
		ContentHash:     contentHash,
		DecodeStrategy:  parsed.Diagnostics.DecodeStrategy,
		SplitConfidence: string(parsed.Diagnostics.SplitConfidence),
		AccountsCount:   parsed.TotalAccounts,
	}
	if err := model.RecordUpload(dbTx, upload); err != nil {
		return nil, err
	}

	result := &UploadResult{
		UploadID:      upload.ID,
		Filename:      filename,
		Accounts:      make([]AccountUploadResult, 0, len(parsed.Accounts)),
		TotalAccounts: parsed.TotalAccounts,
		TotalTrades:   parsed.TotalTrades,
		Diagnostics:   parsed.Diagnostics,
	}
	for _, bundle := range parsed.Accounts {
		accResult, err := s.storeBundle(dbTx, upload.ID, bundle)
		if err != nil {
			return nil, err
		}
		result.NewTrades += accResult.NewTrades
		result.Accounts = append(result.Accounts, *accResult)
	}

	if err := model.UpdateUploadCounts(dbTx, upload.ID, parsed.TotalTrades, result.NewTrades); err != nil {
		return nil, err
	}
	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing upload: %w", err)
	}

	for _, acc := range result.Accounts {
		s.InvalidateAccountCache(acc.Account.ID)
	}
	logger.L.Info("ProcessUpload END", "uploadID", upload.ID, "accounts", result.TotalAccounts,
		"trades", result.TotalTrades, "newTrades", result.NewTrades, "duration", time.Since(overallStartTime))
	return result, nil
}

func (s *uploadServiceImpl) storeBundle(dbTx *sql.Tx, uploadID int64, bundle models.AccountBundle) (*AccountUploadResult, error) {
	if err := validation.ValidateAccountNumber(bundle.AccountNumber); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	currency := strings.ToUpper(strings.TrimSpace(bundle.Currency))
	if err := validation.ValidateCurrencyCode(currency); err != nil {
		logger.L.Warn("Ignoring invalid account currency", "accountNumber", bundle.AccountNumber, "currency", bundle.Currency)
		currency = ""
	}
	name := validation.SanitizeText(bundle.AccountName)

	account, created, err := model.FindOrCreateTradingAccount(dbTx, bundle.AccountNumber, name, currency)
	if err != nil {
		return nil, err
	}
	if bundle.SplitConfidence == models.SplitFallback {
		logger.L.Warn("Storing the full trade list under an account without co-located trades",
			"accountNumber", bundle.AccountNumber, "trades", len(bundle.Trades))
	}

	trades := s.tradeProcessor.Process(bundle.AccountNumber, account.ID, bundle.Trades)
	inserted, err := model.InsertTrades(dbTx, trades)
	if err != nil {
		return nil, err
	}

	summaryStored := false
	if bundle.AccountSummary != nil {
		if err := model.InsertAccountSummary(dbTx, account.ID, uploadID, bundle.AccountSummary); err != nil {
			return nil, err
		}
		summaryStored = true
	}

	return &AccountUploadResult{
		Account:         *account,
		Created:         created,
		TradesFound:     len(bundle.Trades),
		NewTrades:       inserted,
		SummaryStored:   summaryStored,
		SplitConfidence: bundle.SplitConfidence,
	}, nil
}

func (s *uploadServiceImpl) GetTradingAccounts() ([]models.TradingAccount, error) {
	if cached, found := s.reportCache.Get(ckTradingAccounts); found {
		return cached.([]models.TradingAccount), nil
	}
	accounts, err := model.ListTradingAccounts(s.db)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(ckTradingAccounts, accounts, DefaultCacheExpiration)
	return accounts, nil
}

func (s *uploadServiceImpl) GetTrades(accountID int64) ([]models.Trade, error) {
	cacheKey := fmt.Sprintf(ckAccountTrades, accountID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.Trade), nil
	}
	if _, err := model.GetTradingAccount(s.db, accountID); err != nil {
		return nil, err
	}
	trades, err := model.ListTradesByAccount(s.db, accountID)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(cacheKey, trades, DefaultCacheExpiration)
	return trades, nil
}

func (s *uploadServiceImpl) GetAccountSummary(accountID int64) (*models.AccountSummary, error) {
	cacheKey := fmt.Sprintf(ckAccountSummary, accountID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*models.AccountSummary), nil
	}
	if _, err := model.GetTradingAccount(s.db, accountID); err != nil {
		return nil, err
	}
	summary, err := model.GetLatestAccountSummary(s.db, accountID)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(cacheKey, summary, DefaultCacheExpiration)
	return summary, nil
}

func (s *uploadServiceImpl) GetFeeDetails(accountID int64) ([]models.FeeDetail, error) {
	cacheKey := fmt.Sprintf(ckAccountFees, accountID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.FeeDetail), nil
	}
	trades, err := s.GetTrades(accountID)
	if err != nil {
		return nil, err
	}
	feeDetails := s.feeProcessor.Process(trades)
	s.reportCache.Set(cacheKey, feeDetails, DefaultCacheExpiration)
	return feeDetails, nil
}

func (s *uploadServiceImpl) DeleteTrades(accountID int64) (int64, error) {
	if _, err := model.GetTradingAccount(s.db, accountID); err != nil {
		return 0, err
	}
	deleted, err := model.DeleteTradesByAccount(s.db, accountID)
	if err != nil {
		return 0, err
	}
	s.InvalidateAccountCache(accountID)
	logger.L.Info("Deleted account trades", "accountID", accountID, "rowsAffected", deleted)
	return deleted, nil
}

func (s *uploadServiceImpl) GetUploadHistory(limit int) ([]model.UploadRecord, error) {
	return model.ListUploads(s.db, limit)
}

func (s *uploadServiceImpl) InvalidateAccountCache(accountID int64) {
	keysToDelete := []string{
		ckTradingAccounts,
		fmt.Sprintf(ckAccountTrades, accountID),
		fmt.Sprintf(ckAccountFees, accountID),
		fmt.Sprintf(ckAccountSummary, accountID),
	}
	for _, key := range keysToDelete {
		s.reportCache.Delete(key)
	}
}
