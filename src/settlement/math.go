package settlement

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// priceDigits picks the rounding precision from the price magnitude:
// small prices keep two decimals, large prices round to tens.
func priceDigits(price float64) int32 {
	digit := 4 - len(strconv.Itoa(int(price)))
	if digit > 2 {
		digit = 2
	}
	if digit < -1 {
		digit = -1
	}
	return int32(digit)
}

func roundValue(value float64) float64 {
	return decimal.NewFromFloat(value).Round(priceDigits(value)).InexactFloat64()
}

// CurrentInvestmentAmount values the holding at the live price.
func CurrentInvestmentAmount(livePrice, shareNum float64) float64 {
	return roundValue(decimal.NewFromFloat(livePrice).
		Mul(decimal.NewFromFloat(shareNum)).
		InexactFloat64())
}

// CurrentPnlAmount accrues the profit and loss since the last valuation.
func CurrentPnlAmount(livePrice, lastLivePrice, lastPnlAmt, shareNum float64) float64 {
	delta := decimal.NewFromFloat(livePrice).
		Sub(decimal.NewFromFloat(lastLivePrice)).
		Mul(decimal.NewFromFloat(shareNum))
	return roundValue(decimal.NewFromFloat(lastPnlAmt).Add(delta).InexactFloat64())
}

// CurrentPnlPct expresses the accrued profit and loss as a fraction of the
// invested amount.
func CurrentPnlPct(livePrice, lastLivePrice, lastPnlAmt, shareNum, investmentAmount float64) float64 {
	if investmentAmount == 0 {
		return 0
	}
	pnl := CurrentPnlAmount(livePrice, lastLivePrice, lastPnlAmt, shareNum)
	return roundValue(pnl / investmentAmount)
}

// CurrentBotCashBalance adjusts the strategy cash for a share count change
// at the live price.
func CurrentBotCashBalance(lastBotCashBalance, livePrice, shareNum, lastShareNum float64) float64 {
	spent := decimal.NewFromFloat(shareNum).
		Sub(decimal.NewFromFloat(lastShareNum)).
		Mul(decimal.NewFromFloat(livePrice))
	return roundValue(decimal.NewFromFloat(lastBotCashBalance).Sub(spent).InexactFloat64())
}

// CurrentValue is the holding valuation plus accrued profit and loss.
func CurrentValue(currentPrice, entryPrice, lastPnlAmt, shareNum float64) float64 {
	investment := CurrentInvestmentAmount(currentPrice, shareNum)
	pnl := CurrentPnlAmount(currentPrice, entryPrice, lastPnlAmt, shareNum)
	return investment + pnl
}
