package entities

import "github.com/shopspring/decimal"

// StartingBalance is the simulated cash every portfolio begins with.
var StartingBalance = decimal.NewFromInt(10000)

// LessonsToUnlockPortfolio is the number of completed lessons required before trading.
const LessonsToUnlockPortfolio = 2

// Transaction types.
const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Holding is an owned position in one stock.
type Holding struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name,omitempty"`
	Shares       decimal.Decimal `json:"shares"`
	AverageCost  decimal.Decimal `json:"averageCost"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
}

// CurrentValue is always recomputed from the price and the share count.
func (h Holding) CurrentValue() decimal.Decimal {
	return h.price().Mul(h.Shares)
}

// CostBasis is the total amount paid for the position.
func (h Holding) CostBasis() decimal.Decimal {
	return h.AverageCost.Mul(h.Shares)
}

// GainLoss is the unrealised profit of the position.
func (h Holding) GainLoss() decimal.Decimal {
	return h.CurrentValue().Sub(h.CostBasis())
}

// GainLossPercent is GainLoss relative to the cost basis.
func (h Holding) GainLossPercent() decimal.Decimal {
	basis := h.CostBasis()
	if basis.IsZero() {
		return decimal.Zero
	}
	return h.GainLoss().Div(basis).Mul(decimal.NewFromInt(100))
}

// price falls back to the average cost when no quote is known.
func (h Holding) price() decimal.Decimal {
	if h.CurrentPrice.IsPositive() {
		return h.CurrentPrice
	}
	return h.AverageCost
}

// Transaction is an executed trade. The list is append-only.
type Transaction struct {
	ID        ID              `json:"id"`
	Type      string          `json:"type"`
	Symbol    string          `json:"symbol"`
	Shares    decimal.Decimal `json:"shares"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt Timestamp       `json:"createdAt"`
}

// Portfolio is the simulated brokerage account.
type Portfolio struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalInvested decimal.Decimal `json:"totalInvested"`
	Holdings      []Holding       `json:"stocks"`
	Transactions  []Transaction   `json:"transactions"`
}

// NewPortfolio returns an empty portfolio funded with the starting balance.
func NewPortfolio() Portfolio {
	return Portfolio{Balance: StartingBalance}
}

// HoldingsValue sums the current value of all positions.
func (p *Portfolio) HoldingsValue() decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.Holdings {
		total = total.Add(h.CurrentValue())
	}
	return total
}

// TotalValue is cash plus positions.
func (p *Portfolio) TotalValue() decimal.Decimal {
	return p.Balance.Add(p.HoldingsValue())
}

// Holding returns the position for symbol.
func (p *Portfolio) Holding(symbol string) (*Holding, bool) {
	for i := range p.Holdings {
		if p.Holdings[i].Symbol == symbol {
			return &p.Holdings[i], true
		}
	}
	return nil, false
}

// ApplyBuy mirrors a confirmed purchase into the local portfolio.
func (p *Portfolio) ApplyBuy(tx Transaction, balance decimal.Decimal) {
	p.Balance = balance
	if h, ok := p.Holding(tx.Symbol); ok {
		cost := h.CostBasis().Add(tx.Price.Mul(tx.Shares))
		h.Shares = h.Shares.Add(tx.Shares)
		if h.Shares.IsPositive() {
			h.AverageCost = cost.Div(h.Shares)
		}
		h.CurrentPrice = tx.Price
	} else {
		p.Holdings = append(p.Holdings, Holding{
			Symbol:       tx.Symbol,
			Shares:       tx.Shares,
			AverageCost:  tx.Price,
			CurrentPrice: tx.Price,
		})
	}
	p.Transactions = append(p.Transactions, tx)
}

// ApplySell mirrors a confirmed sale. Positions that reach zero shares are removed.
func (p *Portfolio) ApplySell(tx Transaction, balance decimal.Decimal) {
	p.Balance = balance
	for i := range p.Holdings {
		if p.Holdings[i].Symbol != tx.Symbol {
			continue
		}
		p.Holdings[i].Shares = p.Holdings[i].Shares.Sub(tx.Shares)
		if !p.Holdings[i].Shares.IsPositive() {
			p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
		}
		break
	}
	p.Transactions = append(p.Transactions, tx)
}

// ValuePoint is one sample of the portfolio value history.
type ValuePoint struct {
	Date        Timestamp       `json:"date"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	Balance     decimal.Decimal `json:"balance"`
	DailyChange decimal.Decimal `json:"dailyChange"`
}

// PortfolioSummary is the totals block returned with holdings.
type PortfolioSummary struct {
	Balance                     decimal.Decimal `json:"balance"`
	TotalValue                  decimal.Decimal `json:"totalValue"`
	TotalInvested               decimal.Decimal `json:"totalInvested"`
	TotalCurrentValue           decimal.Decimal `json:"totalCurrentValue"`
	TotalAllTimeGainLoss        decimal.Decimal `json:"totalAllTimeGainLoss"`
	TotalAllTimeGainLossPercent decimal.Decimal `json:"totalAllTimeGainLossPercent"`
	TotalDailyGainLoss          decimal.Decimal `json:"totalDailyGainLoss"`
	TotalDailyGainLossPercent   decimal.Decimal `json:"totalDailyGainLossPercent"`
}
