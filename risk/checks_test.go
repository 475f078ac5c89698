package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func codes(vs []Violation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Code)
	}
	return out
}

func TestCheck(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	tests := []struct {
		name string
		in   LotInputs
		want []string
	}{
		{
			name: "clean",
			in:   LotInputs{Balance: 100000, RiskPct: 1, Entry: 2030, Stop: 2025, Target: 2045},
			want: []string{},
		},
		{
			name: "not ready",
			in:   LotInputs{Balance: 100000, RiskPct: 1},
			want: []string{"NOT_READY"},
		},
		{
			name: "stop on entry",
			in:   LotInputs{Balance: 100000, RiskPct: 1, Entry: 2030, Stop: 2030},
			want: []string{"NO_STOP_DISTANCE"},
		},
		{
			name: "over default",
			in:   LotInputs{Balance: 100000, RiskPct: 1.5, Entry: 2030, Stop: 2025},
			want: []string{"RISK_OVER_DEFAULT"},
		},
		{
			name: "over max",
			in:   LotInputs{Balance: 100000, RiskPct: 3, Entry: 2030, Stop: 2025},
			want: []string{"RISK_TOO_HIGH"},
		},
		{
			name: "poor reward",
			in:   LotInputs{Balance: 100000, RiskPct: 1, Entry: 2030, Stop: 2025, Target: 2035},
			want: []string{"RR_TOO_LOW"},
		},
		{
			name: "tiny account",
			in:   LotInputs{Balance: 100, RiskPct: 1, Entry: 2030, Stop: 2025},
			want: []string{"BELOW_MIN_LOT"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Check(p, tt.in, LotSize(tt.in))
			assert.Equal(t, tt.want, codes(got))
		})
	}
}

func TestCheck_ZeroPolicyDisablesLimits(t *testing.T) {
	t.Parallel()

	in := LotInputs{Balance: 100000, RiskPct: 10, Entry: 2030, Stop: 2025, Target: 2031}
	assert.Empty(t, Check(Policy{}, in, LotSize(in)))
}
