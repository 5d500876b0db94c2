package models

import (
	"fmt"
	"strings"
)

// Category is the kind of work a task represents.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryKnowledge
	CategoryGuts
	CategoryProficiency
	CategoryKindness
	CategoryCharm
)

var categoryNames = map[Category]string{
	CategoryUnknown:     "Unknown",
	CategoryKnowledge:   "Knowledge",
	CategoryGuts:        "Guts",
	CategoryProficiency: "Proficiency",
	CategoryKindness:    "Kindness",
	CategoryCharm:       "Charm",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return categoryNames[CategoryUnknown]
}

// Categories lists the recognized categories in display order.
func Categories() []Category {
	return []Category{CategoryKnowledge, CategoryGuts, CategoryProficiency, CategoryKindness, CategoryCharm}
}

// ParseCategory accepts the canonical category names, case-insensitively.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("unknown category %q", s)
}

// CategoryFromString is the lenient decoding used for stored values.
func CategoryFromString(s string) Category {
	c, _ := ParseCategory(s)
	return c
}

// Difficulty scales both the experience reward and the statistic boost of a task.
type Difficulty uint8

const (
	DifficultyUnknown Difficulty = iota
	DifficultyEasy
	DifficultyMedium
	DifficultyHard
	DifficultyExtreme
)

var difficultyNames = map[Difficulty]string{
	DifficultyUnknown: "Unknown",
	DifficultyEasy:    "Easy",
	DifficultyMedium:  "Medium",
	DifficultyHard:    "Hard",
	DifficultyExtreme: "Extreme",
}

func (d Difficulty) String() string {
	if s, ok := difficultyNames[d]; ok {
		return s
	}
	return difficultyNames[DifficultyUnknown]
}

// Difficulties lists the recognized difficulties from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExtreme}
}

func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	for _, d := range Difficulties() {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return DifficultyUnknown, fmt.Errorf("unknown difficulty %q", s)
}

func DifficultyFromString(s string) Difficulty {
	d, _ := ParseDifficulty(s)
	return d
}

// ExpReward is the experience granted for completing a task of this
// difficulty. Unrecognized difficulties are worth the Easy reward.
func (d Difficulty) ExpReward() int {
	switch d {
	case DifficultyEasy:
		return 10
	case DifficultyMedium:
		return 25
	case DifficultyHard:
		return 50
	case DifficultyExtreme:
		return 100
	default:
		return 10
	}
}

// TaskStatus is the lifecycle state of a task. Pending is the zero value.
type TaskStatus uint8

const (
	TaskPending TaskStatus = iota
	TaskInProgress
	TaskCompleted
	TaskCancelled
)

var taskStatusNames = map[TaskStatus]string{
	TaskPending:    "pending",
	TaskInProgress: "in_progress",
	TaskCompleted:  "completed",
	TaskCancelled:  "cancelled",
}

func (s TaskStatus) String() string {
	if name, ok := taskStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TaskStatus(%d)", uint8(s))
}

func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskPending, TaskInProgress, TaskCompleted, TaskCancelled}
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range TaskStatuses() {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	return TaskPending, fmt.Errorf("unknown task status %q", s)
}

// PalaceStatus is the lifecycle state of a palace. Completed and abandoned
// are terminal.
type PalaceStatus uint8

const (
	PalaceActive PalaceStatus = iota
	PalaceCompleted
	PalaceAbandoned
)

var palaceStatusNames = map[PalaceStatus]string{
	PalaceActive:    "active",
	PalaceCompleted: "completed",
	PalaceAbandoned: "abandoned",
}

func (s PalaceStatus) String() string {
	if name, ok := palaceStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("PalaceStatus(%d)", uint8(s))
}

func PalaceStatuses() []PalaceStatus {
	return []PalaceStatus{PalaceActive, PalaceCompleted, PalaceAbandoned}
}

func ParsePalaceStatus(s string) (PalaceStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range PalaceStatuses() {
		if strings.EqualFold(s, st.String()) {
			return st, nil
		}
	}
	return PalaceActive, fmt.Errorf("unknown palace status %q", s)
}

// Terminal reports whether no further transition is possible.
func (s PalaceStatus) Terminal() bool {
	return s == PalaceCompleted || s == PalaceAbandoned
}

// StatName identifies one of the five capped statistics.
type StatName uint8

const (
	StatKnowledge StatName = iota
	StatGuts
	StatProficiency
	StatKindness
	StatCharm
)

var statNames = map[StatName]string{
	StatKnowledge:   "knowledge",
	StatGuts:        "guts",
	StatProficiency: "proficiency",
	StatKindness:    "kindness",
	StatCharm:       "charm",
}

// String returns the lowercase storage name.
func (n StatName) String() string {
	if s, ok := statNames[n]; ok {
		return s
	}
	return fmt.Sprintf("StatName(%d)", uint8(n))
}

// Label returns the display name, e.g. "Knowledge".
func (n StatName) Label() string {
	s := n.String()
	if _, ok := statNames[n]; !ok {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func StatNames() []StatName {
	return []StatName{StatKnowledge, StatGuts, StatProficiency, StatKindness, StatCharm}
}

func ParseStatName(s string) (StatName, error) {
	s = strings.TrimSpace(s)
	for _, n := range StatNames() {
		if strings.EqualFold(s, n.String()) {
			return n, nil
		}
	}
	return StatKnowledge, fmt.Errorf("unknown stat %q", s)
}
