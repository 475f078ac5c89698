package risk

// Lot sizing for gold, forex and crypto positions. The contract size comes
// from the selected mode and is never derived from the symbol.

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects the contract size used by the calculator.
type Mode string

const (
	Gold   Mode = "gold"
	Forex  Mode = "forex"
	Crypto Mode = "crypto"
)

// ParseMode accepts the mode names case-insensitively; empty means Gold.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Gold:
		return Gold, nil
	case Forex:
		return Forex, nil
	case Crypto:
		return Crypto, nil
	}
	return "", fmt.Errorf("unknown calculator mode %q", s)
}

// ContractSize is the number of units in one standard lot.
func ContractSize(m Mode) float64 {
	switch m {
	case Forex:
		return 100000
	case Crypto:
		return 1
	}
	return 100
}

type LotInputs struct {
	Mode    Mode    `json:"mode"`
	Balance float64 `json:"balance"`
	RiskPct float64 `json:"riskPct"` // percent of balance, 1.0 == 1%
	Entry   float64 `json:"entry"`
	Stop    float64 `json:"stop"`
	Target  float64 `json:"target,omitempty"`
}

type LotResult struct {
	Ready      bool    `json:"ready"`
	Contract   float64 `json:"contract"`
	RiskAmount float64 `json:"riskAmount"`
	Distance   float64 `json:"distance"`
	Lots       float64 `json:"-"`
}

func missing(x float64) bool {
	return x == 0 || math.IsNaN(x)
}

// LotSize computes the position size that loses RiskPct of Balance when the
// stop is hit. The result is not Ready while entry, stop or balance is unset.
// Lots is +Inf when the stop sits on the entry.
func LotSize(in LotInputs) LotResult {
	if missing(in.Entry) || missing(in.Stop) || missing(in.Balance) {
		return LotResult{}
	}

	contract := ContractSize(in.Mode)
	riskAmt := in.Balance * (in.RiskPct / 100)
	distance := math.Abs(in.Entry - in.Stop)

	return LotResult{
		Ready:      true,
		Contract:   contract,
		RiskAmount: riskAmt,
		Distance:   distance,
		Lots:       riskAmt / (distance * contract),
	}
}

// FormatLots renders lots with two decimals, "0.00" for non-finite values.
func FormatLots(lots float64) string {
	if math.IsNaN(lots) || math.IsInf(lots, 0) {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", lots)
}

// RoundedLots floors Lots to the 0.01 step brokers accept.
func (r LotResult) RoundedLots() float64 {
	if !r.Ready || math.IsNaN(r.Lots) || math.IsInf(r.Lots, 0) {
		return 0
	}
	return math.Floor(r.Lots*100+1e-9) / 100
}

// ActualRisk is the amount at risk when trading RoundedLots.
func (r LotResult) ActualRisk() float64 {
	return PlannedRisk(r.RoundedLots(), r.Contract, r.Distance, 0)
}
