package domain

// TradeRecord represents one closed or open position as served by the
// journal backend. The backend owns and persists trades; this service
// never mutates them.
type TradeRecord struct {
	ID         string            `json:"id"`
	Symbol     string            `json:"symbol"`
	Direction  string            `json:"direction"` // "long" | "short"
	EntryPrice float64           `json:"entry_price"`
	ExitPrice  float64           `json:"exit_price"`
	Quantity   float64           `json:"quantity"`
	PnL        float64           `json:"pnl"`
	RiskAmount float64           `json:"risk_amount"`
	OpenedAt   int64             `json:"opened_at"` // Unix ms
	ClosedAt   int64             `json:"closed_at"` // Unix ms, 0 while open
	Open       bool              `json:"open"`
	Strategy   string            `json:"strategy"`
	Setup      string            `json:"setup"`
	Variables  map[string]string `json:"variables"` // user-defined categorical tags
}

// Direction constants
const (
	DirectionLong  = "long"
	DirectionShort = "short"
)
