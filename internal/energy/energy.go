package energy

import (
	"math"

	"github.com/caloflow/caloflow/internal/domain"
)

// activityMultipliers maps activity levels to their TDEE multiplier. Unknown
// levels fall back to the sedentary multiplier rather than failing.
var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

const (
	// kcal roughly equivalent to one kilogram of body fat.
	kcalPerKg = 7700
	// Days assumed for a goal when the profile gives none.
	defaultTargetDays = 30
)

// Energy is the derived output of the Mifflin-St Jeor model, in kcal/day.
type Energy struct {
	BMR  int
	TDEE int
}

// Compute derives BMR and TDEE from body metrics. Pure and total: every
// input combination produces a result, bit-for-bit reproducible.
func Compute(weightKg, heightCm float64, age int, sex domain.Sex, level domain.ActivityLevel) Energy {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == domain.SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, ok := activityMultipliers[level]
	if !ok {
		mult = activityMultipliers[domain.ActivitySedentary]
	}

	// TDEE scales the unrounded BMR so the two roundings don't compound.
	return Energy{
		BMR:  int(math.Round(bmr)),
		TDEE: int(math.Round(bmr * mult)),
	}
}

// Direction of the weight goal relative to the current weight.
type Direction string

const (
	DirectionLosing      Direction = "losing"
	DirectionGaining     Direction = "gaining"
	DirectionMaintaining Direction = "maintaining"
)

// Goal is the recommended daily calorie target derived from a saved profile.
// Recommended is the raw policy value; Effective is the value callers should
// use, clamped to BMR when the pace would dip below it.
type Goal struct {
	Direction       Direction `json:"direction"`
	DailyAdjustment int       `json:"dailyAdjustment"`
	Recommended     int       `json:"recommended"`
	Effective       int       `json:"effective"`
	UnsafePace      bool      `json:"unsafePace"`
}

// GoalFor computes the calorie goal for a profile. A profile without a target
// weight maintains at TDEE.
func GoalFor(p *domain.UserProfile) Goal {
	target := p.TargetWeightKg
	if target <= 0 {
		target = p.CurrentWeightKg
	}
	weightDiff := p.CurrentWeightKg - target

	direction := DirectionMaintaining
	switch {
	case weightDiff > 0:
		direction = DirectionLosing
	case weightDiff < 0:
		direction = DirectionGaining
	}

	days := p.TargetDays
	if days <= 0 {
		days = defaultTargetDays
	}

	totalEnergy := math.Abs(weightDiff) * kcalPerKg
	adjustment := int(math.Round(totalEnergy / float64(days)))

	recommended := p.TDEE + adjustment
	if direction == DirectionLosing {
		recommended = p.TDEE - adjustment
	}

	goal := Goal{
		Direction:       direction,
		DailyAdjustment: adjustment,
		Recommended:     recommended,
		Effective:       recommended,
	}
	if direction == DirectionLosing && recommended < p.BMR {
		goal.UnsafePace = true
		goal.Effective = p.BMR
	}
	return goal
}

// Trend classifies overall weight movement against the earliest recorded
// weight, with a ±0.5 kg dead band.
func Trend(currentKg, earliestKg float64) Direction {
	diff := currentKg - earliestKg
	switch {
	case diff < -0.5:
		return DirectionLosing
	case diff > 0.5:
		return DirectionGaining
	default:
		return DirectionMaintaining
	}
}
