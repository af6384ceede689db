package calculator

// Referral reward policy: every ReferralsPerReward activated referrals
// earn RewardDays bonus days of the default reward tier.
const (
	ReferralsPerReward = 2
	RewardDays         = 7
)

// RewardDaysFor returns the bonus days earned by activatedCount activated
// referrals: floor(activatedCount / 2) * 7. Negative counts earn nothing.
func RewardDaysFor(activatedCount int) int {
	if activatedCount <= 0 {
		return 0
	}
	return (activatedCount / ReferralsPerReward) * RewardDays
}

// ReferralsUntilNextReward returns how many more activations are needed
// before the next reward step.
func ReferralsUntilNextReward(activatedCount int) int {
	if activatedCount < 0 {
		activatedCount = 0
	}
	return ReferralsPerReward - activatedCount%ReferralsPerReward
}
