package bandit

import "paperScout/domain"

// Reward policy constants. These are part of the external contract with
// whoever analyzes the logged rewards, not an internal tuning detail.
const (
	ClickReward     = 1.0
	BookmarkReward  = 3.0
	DwellThreshold  = 3.0 // seconds
	DwellReward     = 0.3
	BounceThreshold = 1.0 // seconds
	BouncePenalty   = -0.2
)

// ComputeReward turns one logged interaction into a scalar training target.
// Pure and total: unknown action kinds contribute zero base reward but
// dwell-time adjustments still apply, and the sum is never clamped.
func ComputeReward(in domain.Interaction) float64 {
	reward := 0.0

	switch in.ActionType {
	case domain.ActionClick:
		reward += ClickReward
	case domain.ActionBookmark:
		reward += BookmarkReward
	}

	if in.DwellTime != nil {
		switch {
		case *in.DwellTime >= DwellThreshold:
			reward += DwellReward
		case *in.DwellTime <= BounceThreshold:
			reward += BouncePenalty
		}
	}

	return reward
}
