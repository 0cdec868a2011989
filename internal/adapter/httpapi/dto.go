package httpapi

import (
	"time"

	"github.com/stockverse/stockverse-backend/internal/domain"
)

// Response shapes. Monetary values are serialized as fixed two-decimal
// strings so browser clients never see float artifacts.

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

type quoteResponse struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Sector        string `json:"sector"`
	Price         string `json:"price"`
	Change        string `json:"change"`
	ChangePercent string `json:"changePercent"`
	Volume        int64  `json:"volume"`
	High          string `json:"high,omitempty"`
	Low           string `json:"low,omitempty"`
	Open          string `json:"open,omitempty"`
	PreviousClose string `json:"previousClose,omitempty"`
}

type positionResponse struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Sector        string `json:"sector"`
	Quantity      int64  `json:"quantity"`
	AverageCost   string `json:"averageCost"`
	TotalInvested string `json:"totalInvested"`
}

type transactionResponse struct {
	ID           string    `json:"id"`
	Side         string    `json:"side"`
	Symbol       string    `json:"symbol"`
	Quantity     int64     `json:"quantity"`
	Price        string    `json:"price"`
	Date         time.Time `json:"date"`
	TotalCost    string    `json:"totalCost,omitempty"`
	TotalValue   string    `json:"totalValue,omitempty"`
	CostBasis    string    `json:"costBasis,omitempty"`
	GainLoss     string    `json:"gainLoss,omitempty"`
	BalanceAfter string    `json:"balanceAfter"`
}

type statsResponse struct {
	TotalInvested        string `json:"totalInvested"`
	CurrentValue         string `json:"currentValue"`
	TotalGainLoss        string `json:"totalGainLoss"`
	TotalGainLossPercent string `json:"totalGainLossPercent"`
}

type sectorResponse struct {
	TotalInvested string   `json:"totalInvested"`
	CurrentValue  string   `json:"currentValue"`
	GainLoss      string   `json:"gainLoss"`
	Symbols       []string `json:"symbols"`
}

type snapshotResponse struct {
	CashBalance  string                `json:"cashBalance"`
	Holdings     []positionResponse    `json:"holdings"`
	Transactions []transactionResponse `json:"transactions"`
}

type tradeResponse struct {
	Message     string              `json:"message"`
	Transaction transactionResponse `json:"transaction"`
}

type bankTransactionResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Account     string    `json:"account"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Balance:   u.Balance.StringFixed(2),
		CreatedAt: u.CreatedAt,
	}
}

func toQuoteResponse(q *domain.Quote) quoteResponse {
	r := quoteResponse{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Sector:        q.Sector,
		Price:         q.Price.StringFixed(2),
		Change:        q.Change.StringFixed(2),
		ChangePercent: q.ChangePercent.StringFixed(2),
		Volume:        q.Volume,
	}
	if !q.High.IsZero() {
		r.High = q.High.StringFixed(2)
	}
	if !q.Low.IsZero() {
		r.Low = q.Low.StringFixed(2)
	}
	if !q.Open.IsZero() {
		r.Open = q.Open.StringFixed(2)
	}
	if !q.PreviousClose.IsZero() {
		r.PreviousClose = q.PreviousClose.StringFixed(2)
	}
	return r
}

func toPositionResponse(p domain.Position) positionResponse {
	return positionResponse{
		Symbol:        p.Symbol,
		Name:          p.Name,
		Sector:        p.Sector,
		Quantity:      p.Quantity,
		AverageCost:   p.AverageCost.StringFixed(2),
		TotalInvested: p.TotalInvested.StringFixed(2),
	}
}

func toTransactionResponse(t domain.TransactionRecord) transactionResponse {
	r := transactionResponse{
		ID:           t.ID,
		Side:         string(t.Side),
		Symbol:       t.Symbol,
		Quantity:     t.Quantity,
		Price:        t.Price.StringFixed(2),
		Date:         t.Date,
		BalanceAfter: t.BalanceAfter.StringFixed(2),
	}
	switch t.Side {
	case domain.TradeSideBuy:
		r.TotalCost = t.TotalCost.StringFixed(2)
	case domain.TradeSideSell:
		r.TotalValue = t.TotalValue.StringFixed(2)
		r.CostBasis = t.CostBasis.StringFixed(2)
		r.GainLoss = t.GainLoss.StringFixed(2)
	}
	return r
}

func toSnapshotResponse(s *domain.Snapshot) snapshotResponse {
	resp := snapshotResponse{
		CashBalance:  s.CashBalance.StringFixed(2),
		Holdings:     make([]positionResponse, 0, len(s.Holdings)),
		Transactions: make([]transactionResponse, 0, len(s.Log)),
	}
	for _, p := range s.Holdings {
		resp.Holdings = append(resp.Holdings, toPositionResponse(p))
	}
	for _, t := range s.Log {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(t))
	}
	return resp
}

func toStatsResponse(s domain.PortfolioStats) statsResponse {
	return statsResponse{
		TotalInvested:        s.TotalInvested.StringFixed(2),
		CurrentValue:         s.CurrentValue.StringFixed(2),
		TotalGainLoss:        s.TotalGainLoss.StringFixed(2),
		TotalGainLossPercent: s.TotalGainLossPercent.StringFixed(2),
	}
}

func toBankTransactionResponse(t *domain.BankTransaction) bankTransactionResponse {
	return bankTransactionResponse{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount.StringFixed(2),
		Description: t.Description,
		Date:        t.Date,
		Account:     t.Account,
	}
}
