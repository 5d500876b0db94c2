package models

import "time"

// ExpPerLevel is the width of every level on the experience curve.
const ExpPerLevel = 100

// User is a player. Level is always derived from TotalExp.
type User struct {
	ID        int64
	Username  string
	TotalExp  int
	Level     int
	CreatedAt time.Time
}

// LevelForExp returns floor(totalExp/100) + 1. Negative input counts as zero.
func LevelForExp(totalExp int) int {
	if totalExp < 0 {
		totalExp = 0
	}
	return totalExp/ExpPerLevel + 1
}

// AddExp adds amount to the total and recomputes the level, reporting whether
// the level went up. Non-positive amounts never reduce experience.
func (u *User) AddExp(amount int) bool {
	if amount > 0 {
		u.TotalExp += amount
	}
	previous := u.Level
	u.Level = LevelForExp(u.TotalExp)
	return u.Level > previous
}

// ExpToNextLevel is the experience still needed to reach Level+1.
func (u *User) ExpToNextLevel() int {
	return ExpPerLevel - u.TotalExp%ExpPerLevel
}
