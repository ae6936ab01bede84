// backend/src/processors/fee_processor.go
package processors

import (
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/utils"
)

const (
	FeeCategoryCommission = "Commission"
	FeeCategoryFee        = "Fee"
	FeeCategorySwap       = "Swap"
)

// FeeProcessor breaks the costs of reconciled trades down into fee lines.
type FeeProcessor interface {
	Process(trades []models.Trade) []models.FeeDetail
}

type feeProcessorImpl struct{}

func NewFeeProcessor() FeeProcessor {
	return &feeProcessorImpl{}
}

// Process emits one line per non-zero commission, fee and swap amount, dated at the
// close of the trade. Amounts keep the broker's sign.
func (p *feeProcessorImpl) Process(trades []models.Trade) []models.FeeDetail {
	feeDetails := []models.FeeDetail{}
	for _, tr := range trades {
		date := tr.CloseTime
		if date == "" {
			date = tr.OpenTime
		}
		costs := []struct {
			category string
			amount   float64
		}{
			{FeeCategoryCommission, tr.Commission},
			{FeeCategoryFee, tr.Fee},
			{FeeCategorySwap, tr.Swap},
		}
		for _, c := range costs {
			amount := utils.RoundFloat(c.amount, 2)
			if amount == 0 {
				continue
			}
			feeDetails = append(feeDetails, models.FeeDetail{
				Date:     date,
				Ticket:   tr.Ticket,
				Item:     tr.Item,
				Category: c.category,
				Amount:   amount,
			})
		}
	}
	return feeDetails
}
