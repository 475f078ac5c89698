package risk

// Policy holds the per-trade limits the calculator checks a sizing against.
// Percentages are of balance, 1.0 == 1%.
type Policy struct {
	DefaultRiskPct float64 `yaml:"default_risk_pct" json:"default_risk_pct" mapstructure:"default_risk_pct"`
	MaxRiskPct     float64 `yaml:"max_risk_pct" json:"max_risk_pct" mapstructure:"max_risk_pct"`
	MinRR          float64 `yaml:"min_rr" json:"min_rr" mapstructure:"min_rr"`
	Mode           Mode    `yaml:"mode" json:"mode" mapstructure:"mode"`
}

func DefaultPolicy() Policy {
	return Policy{
		DefaultRiskPct: 1.0,
		MaxRiskPct:     2.0,
		MinRR:          1.5,
		Mode:           Gold,
	}
}
