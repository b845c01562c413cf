package main

import (
	"errors"
	"math"
)

// errInvalidHeight is returned by bmi when height is zero or negative.
var errInvalidHeight = errors.New("height must be greater than zero")

// fallbackDailyCalories is reported when age, weight or height is missing.
const fallbackDailyCalories = 2000

// multiplier returns the TDEE multiplier for the activity level. Unrecognised
// levels get the sedentary multiplier.
func (a activityLevel) multiplier() float64 {
	switch a {
	case activitySedentary:
		return 1.2
	case activityLightlyActive:
		return 1.375
	case activityModeratelyActive:
		return 1.55
	case activityVeryActive:
		return 1.725
	case activityExtremelyActive:
		return 1.9
	}
	return 1.2
}

// round2 rounds v to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// bmi computes body-mass index from weight in kg and height in cm.
func bmi(weightKG, heightCM float64) (float64, error) {
	if heightCM <= 0 {
		return 0, errInvalidHeight
	}
	m := heightCM / 100
	return round2(weightKG / (m * m)), nil
}

// dailyCalories estimates maintenance calories: Mifflin-St Jeor BMR with the
// male constant for every account, times the activity multiplier, truncated.
// Any zero among age, weight and height yields fallbackDailyCalories.
func dailyCalories(a *account) int {
	if a.Age == 0 || a.Weight == 0 || a.Height == 0 {
		return fallbackDailyCalories
	}
	bmr := 10*a.Weight + 6.25*a.Height - 5*float64(a.Age) + 5
	return int(bmr * a.ActivityLevel.multiplier())
}

// nutrition is the macro breakdown of one logged portion.
type nutrition struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// scaleNutrition converts per-100g densities into absolute values for grams.
func scaleNutrition(f *foodItem, grams float64) nutrition {
	ratio := grams / 100
	return nutrition{
		Calories: round2(f.CaloriesPer100g * ratio),
		Protein:  round2(f.ProteinPer100g * ratio),
		Carbs:    round2(f.CarbsPer100g * ratio),
		Fat:      round2(f.FatPer100g * ratio),
	}
}

// calorieBurn returns calories burned at ratePerMinute over minutes.
func calorieBurn(ratePerMinute float64, minutes int) float64 {
	return round2(ratePerMinute * float64(minutes))
}

// buildProfile assembles the owner-facing view of a, with derived fields.
func buildProfile(a *account) profile {
	p := profile{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		FullName:      a.FullName,
		Age:           a.Age,
		Height:        a.Height,
		Weight:        a.Weight,
		GoalType:      a.GoalType,
		ActivityLevel: a.ActivityLevel,
		DailyCalories: dailyCalories(a),
	}
	if v, err := bmi(a.Weight, a.Height); err == nil {
		p.BMI = &v
	}
	return p
}
