package risk

import "math"

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// PlannedRisk is the account-currency loss if the stop is hit with lots
// open on an instrument of the given contract size.
func PlannedRisk(lots, contract, entry, stop float64) float64 {
	return lots * contract * abs(entry-stop)
}

// RR is reward over risk for a position from entry with the given stop and
// target. Zero when there is no risk distance.
func RR(entry, stop, takeProfit float64) float64 {
	risk := abs(entry - stop)
	reward := abs(takeProfit - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// RiskPct expresses riskAmount as a percentage of balance.
func RiskPct(riskAmount, balance float64) float64 {
	if balance <= 0 {
		return math.Inf(1)
	}
	return riskAmount / balance * 100
}
