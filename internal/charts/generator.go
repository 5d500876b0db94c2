package charts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kidandcat/phantomhq/internal/game"
)

// Generator writes chart files named after a user into Dir.
type Generator struct {
	Dir string
}

// Input is everything needed to render the full chart set for a user.
type Input struct {
	Username string
	Stats    game.StatsSummary
	Palaces  []game.PalaceProgress
	Exp      []game.ExpPoint
}

// fileStem keeps usernames safe to use as file names.
func fileStem(username string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, username)
}

func (g Generator) write(username, suffix string, svg []byte) (string, error) {
	if err := os.MkdirAll(g.Dir, 0755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(g.Dir, fileStem(username)+"_"+suffix+".svg")
	if err := os.WriteFile(path, svg, 0644); err != nil {
		return "", fmt.Errorf("write chart: %w", err)
	}
	return path, nil
}

func (g Generator) StatsRadar(s game.StatsSummary, username string) (string, error) {
	svg, err := StatsRadar(s, username)
	if err != nil {
		return "", err
	}
	return g.write(username, "stats_radar", svg)
}

func (g Generator) StatsBar(s game.StatsSummary, username string) (string, error) {
	svg, err := StatsBar(s, username)
	if err != nil {
		return "", err
	}
	return g.write(username, "stats_bar", svg)
}

func (g Generator) PalaceProgress(palaces []game.PalaceProgress, username string) (string, error) {
	svg, err := PalaceProgress(palaces, username)
	if err != nil {
		return "", err
	}
	return g.write(username, "palaces", svg)
}

func (g Generator) ExpProgress(history []game.ExpPoint, username string) (string, error) {
	svg, err := ExpProgress(history, username)
	if err != nil {
		return "", err
	}
	return g.write(username, "exp_progress", svg)
}

// GenerateAll writes every chart that has data and returns the written paths.
// Charts without data are skipped.
func (g Generator) GenerateAll(in Input) ([]string, error) {
	steps := []func() (string, error){
		func() (string, error) { return g.StatsRadar(in.Stats, in.Username) },
		func() (string, error) { return g.StatsBar(in.Stats, in.Username) },
		func() (string, error) { return g.PalaceProgress(in.Palaces, in.Username) },
		func() (string, error) { return g.ExpProgress(in.Exp, in.Username) },
	}
	var paths []string
	for _, step := range steps {
		path, err := step()
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
