package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestLevelForExp(t *testing.T) {
	cases := map[int]int{-5: 1, 0: 1, 1: 1, 99: 1, 100: 2, 199: 2, 250: 3, 1000: 11}
	for exp, want := range cases {
		assert.Equal(t, want, LevelForExp(exp), "exp %d", exp)
	}
}

func TestUserAddExpNeverDecreasesLevel(t *testing.T) {
	u := &User{Level: 1}
	level := u.Level
	for _, amount := range []int{10, 0, 90, -50, 5, 300, 1} {
		u.AddExp(amount)
		assert.GreaterOrEqual(t, u.Level, level)
		assert.Equal(t, u.TotalExp/100+1, u.Level)
		level = u.Level
	}
	assert.Equal(t, 406, u.TotalExp)
	assert.Equal(t, 5, u.Level)
}

func TestUserAddExpReportsLevelUp(t *testing.T) {
	u := &User{Level: 1}
	assert.False(t, u.AddExp(50))
	assert.True(t, u.AddExp(50))
	assert.Equal(t, 2, u.Level)
	assert.Equal(t, 100, u.ExpToNextLevel())
}

func TestUserAddExpRepairsStaleLevel(t *testing.T) {
	u := &User{TotalExp: 350, Level: 1}
	assert.True(t, u.AddExp(0))
	assert.Equal(t, 4, u.Level)
}

func TestExpRewardTable(t *testing.T) {
	want := map[Difficulty]int{
		DifficultyEasy:    10,
		DifficultyMedium:  25,
		DifficultyHard:    50,
		DifficultyExtreme: 100,
		DifficultyUnknown: 10,
		Difficulty(42):    10,
	}
	for d, exp := range want {
		task := &Task{Difficulty: d}
		assert.Equal(t, exp, task.CalculateExpReward(), "difficulty %v", d)
		assert.Equal(t, exp, task.ExpReward)
	}
}

func TestTaskOverdue(t *testing.T) {
	task := &Task{Difficulty: DifficultyHard, Deadline: date(2026, time.March, 9)}
	assert.True(t, task.IsOverdue(today))

	task.Complete(today)
	assert.False(t, task.IsOverdue(today))
}

func TestTaskNotOverdueOnDeadlineDayOrWithoutDeadline(t *testing.T) {
	onTheDay := &Task{Deadline: date(2026, time.March, 10)}
	assert.False(t, onTheDay.IsOverdue(today))

	none := &Task{}
	assert.False(t, none.IsOverdue(today))
}

func TestTaskCompleteFillsMissingReward(t *testing.T) {
	task := &Task{Difficulty: DifficultyExtreme}
	task.Complete(today)

	assert.Equal(t, TaskCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, today, *task.CompletedAt)
	assert.Equal(t, 100, task.ExpReward)
}

func TestTaskCompleteKeepsFixedReward(t *testing.T) {
	task := &Task{Difficulty: DifficultyExtreme, ExpReward: 25}
	task.Complete(today)
	assert.Equal(t, 25, task.ExpReward)
}

func TestTaskStartAndCancel(t *testing.T) {
	task := &Task{}
	assert.True(t, task.Start())
	assert.Equal(t, TaskInProgress, task.Status)
	assert.False(t, task.Start())
	assert.True(t, task.Cancel())
	assert.False(t, task.Cancel())

	done := &Task{Status: TaskCompleted}
	assert.False(t, done.Cancel())
	assert.Equal(t, TaskCompleted, done.Status)
}

func TestStatsIncreaseClampsAtCap(t *testing.T) {
	for _, v := range []int{0, 1, 50, 97, 99, 100} {
		for _, b := range []int{0, 1, 2, 3, 5} {
			s := &Stats{Guts: v}
			increased := s.Increase(StatGuts, b)
			want := min(100, v+b)
			assert.Equal(t, want, s.Guts, "v=%d b=%d", v, b)
			assert.Equal(t, want > v, increased, "v=%d b=%d", v, b)
		}
	}
}

func TestStatsIncreaseAtCapNeverIncreases(t *testing.T) {
	s := &Stats{Charm: 100}
	assert.False(t, s.Increase(StatCharm, 5))
	assert.Equal(t, 100, s.Charm)
}

func TestStatsIncreaseFloorsAtZero(t *testing.T) {
	s := &Stats{Kindness: 2}
	assert.False(t, s.Increase(StatKindness, -10))
	assert.Equal(t, 0, s.Kindness)
}

func TestStatsUnknownName(t *testing.T) {
	s := &Stats{}
	assert.False(t, s.Increase(StatName(99), 3))
	assert.Equal(t, 0, s.Get(StatName(99)))
}

func TestStatsTotalAndPercentage(t *testing.T) {
	s := &Stats{Knowledge: 10, Guts: 20, Proficiency: 30, Kindness: 40, Charm: 50}
	assert.Equal(t, 150, s.Total())
	assert.InDelta(t, 30.0, s.Percentage(StatProficiency), 1e-9)
}

func TestPalaceUpdateInfiltrationClamps(t *testing.T) {
	for _, pct := range []float64{-20, 0, 0.5, 42.5, 99.9} {
		p := &Palace{}
		assert.False(t, p.UpdateInfiltration(pct, today))
		assert.Equal(t, min(100, max(0, pct)), p.Infiltration)
		assert.Equal(t, PalaceActive, p.Status)
		assert.Nil(t, p.CompletedAt)
	}
}

func TestPalaceUpdateInfiltrationCompletes(t *testing.T) {
	for _, pct := range []float64{100, 100.5, 250} {
		p := &Palace{}
		assert.True(t, p.UpdateInfiltration(pct, today))
		assert.Equal(t, 100.0, p.Infiltration)
		assert.Equal(t, PalaceCompleted, p.Status)
		require.NotNil(t, p.CompletedAt)
		assert.Equal(t, today, *p.CompletedAt)
	}
}

func TestPalaceTerminalIgnoresUpdates(t *testing.T) {
	first := today.Add(-time.Hour)
	completed := &Palace{Status: PalaceCompleted, Infiltration: 100, CompletedAt: &first}
	assert.False(t, completed.UpdateInfiltration(100, today))
	assert.Equal(t, first, *completed.CompletedAt)

	abandoned := &Palace{Status: PalaceAbandoned, Infiltration: 10}
	assert.False(t, abandoned.UpdateInfiltration(50, today))
	assert.Equal(t, 10.0, abandoned.Infiltration)
	assert.False(t, abandoned.Abandon())
}

func TestPalaceDaysRemaining(t *testing.T) {
	p := &Palace{}
	_, ok := p.DaysRemaining(today)
	assert.False(t, ok)

	p.Deadline = date(2026, time.March, 17)
	days, ok := p.DaysRemaining(today)
	assert.True(t, ok)
	assert.Equal(t, 7, days)

	p.Deadline = date(2026, time.March, 1)
	days, ok = p.DaysRemaining(today)
	assert.True(t, ok)
	assert.Equal(t, 0, days)
	assert.True(t, p.IsOverdue(today))

	p.Status = PalaceCompleted
	assert.False(t, p.IsOverdue(today))
}

func TestEnumParsing(t *testing.T) {
	c, err := ParseCategory("kindness")
	require.NoError(t, err)
	assert.Equal(t, CategoryKindness, c)
	assert.Equal(t, CategoryUnknown, CategoryFromString("Stealth"))
	assert.Equal(t, "Unknown", Category(77).String())

	d, err := ParseDifficulty("EXTREME")
	require.NoError(t, err)
	assert.Equal(t, DifficultyExtreme, d)
	_, err = ParseDifficulty("Nightmare")
	assert.Error(t, err)

	s, err := ParseTaskStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, TaskInProgress, s)
	_, err = ParseTaskStatus("done")
	assert.Error(t, err)

	ps, err := ParsePalaceStatus("abandoned")
	require.NoError(t, err)
	assert.True(t, ps.Terminal())

	n, err := ParseStatName("Proficiency")
	require.NoError(t, err)
	assert.Equal(t, StatProficiency, n)
	assert.Equal(t, "Proficiency", n.Label())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-04-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", FormatDate(d))

	_, err = ParseDate("01/04/2026")
	assert.Error(t, err)
}
