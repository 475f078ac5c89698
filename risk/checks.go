package risk

import "fmt"

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Check compares a sizing against p. A zero limit in p disables that check;
// the reward:risk check only runs when a target is set.
func Check(p Policy, in LotInputs, res LotResult) []Violation {
	var out []Violation
	add := func(code, msg string) {
		out = append(out, Violation{Code: code, Msg: msg})
	}

	if !res.Ready {
		add("NOT_READY", "entry, stop and balance must be set")
		return out
	}
	if res.Distance == 0 {
		add("NO_STOP_DISTANCE", "stop must differ from entry")
		return out
	}
	if res.RoundedLots() == 0 {
		add("BELOW_MIN_LOT", fmt.Sprintf("size %s is below the 0.01 lot step", FormatLots(res.Lots)))
	}

	if p.MaxRiskPct > 0 && in.RiskPct > p.MaxRiskPct {
		add("RISK_TOO_HIGH",
			fmt.Sprintf("risk %.2f%% exceeds max %.2f%%", in.RiskPct, p.MaxRiskPct))
	} else if p.DefaultRiskPct > 0 && in.RiskPct > p.DefaultRiskPct {
		add("RISK_OVER_DEFAULT",
			fmt.Sprintf("risk %.2f%% exceeds default %.2f%%", in.RiskPct, p.DefaultRiskPct))
	}

	if in.Target != 0 && p.MinRR > 0 {
		if rr := RR(in.Entry, in.Stop, in.Target); rr < p.MinRR {
			add("RR_TOO_LOW", fmt.Sprintf("RR %.2f below minimum %.2f", rr, p.MinRR))
		}
	}
	return out
}
