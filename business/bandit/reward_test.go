package bandit

import (
	"testing"

	"paperScout/domain"

	"github.com/stretchr/testify/assert"
)

func dwell(seconds float64) *float64 {
	return &seconds
}

func TestComputeReward(t *testing.T) {
	cases := []struct {
		name string
		in   domain.Interaction
		want float64
	}{
		{"click no dwell", domain.Interaction{ActionType: domain.ActionClick}, 1.0},
		{"bookmark no dwell", domain.Interaction{ActionType: domain.ActionBookmark}, 3.0},
		{"view no dwell", domain.Interaction{ActionType: domain.ActionView}, 0.0},
		{"close no dwell", domain.Interaction{ActionType: domain.ActionClose}, 0.0},

		{"click long dwell", domain.Interaction{ActionType: domain.ActionClick, DwellTime: dwell(5.0)}, 1.3},
		{"click dwell at threshold", domain.Interaction{ActionType: domain.ActionClick, DwellTime: dwell(3.0)}, 1.3},
		{"click bounce", domain.Interaction{ActionType: domain.ActionClick, DwellTime: dwell(0.5)}, 0.8},
		{"click bounce at threshold", domain.Interaction{ActionType: domain.ActionClick, DwellTime: dwell(1.0)}, 0.8},
		{"click dead zone", domain.Interaction{ActionType: domain.ActionClick, DwellTime: dwell(2.0)}, 1.0},

		{"bookmark long dwell", domain.Interaction{ActionType: domain.ActionBookmark, DwellTime: dwell(10.0)}, 3.3},

		// unknown kinds get no base reward but dwell still applies
		{"unknown action", domain.Interaction{ActionType: "share"}, 0.0},
		{"unknown action long dwell", domain.Interaction{ActionType: "share", DwellTime: dwell(4.0)}, 0.3},
		{"unknown action bounce", domain.Interaction{ActionType: "share", DwellTime: dwell(0.2)}, -0.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ComputeReward(tc.in), 1e-9)
		})
	}
}
