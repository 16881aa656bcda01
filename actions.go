package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thiefmaster/towerlight/apis"
	"github.com/thiefmaster/towerlight/comm"
)

type lightState struct {
	command  comm.Command
	priority int
}

var builtinStates = map[string]lightState{
	"off":     {comm.NewOffCommand(), 0},
	"idle":    {comm.NewSteadyCommand(comm.Green, comm.IntensityLow), 1},
	"ok":      {comm.NewSteadyCommand(comm.Green, comm.IntensityHigh), 2},
	"message": {comm.NewSteadyCommand(comm.Blue, comm.IntensityMedium), 3},
	"warning": {comm.NewFlashCommand(comm.Amber, comm.IntensityHigh, comm.SpeedStandard, comm.PatternNormal), 4},
	"mention": {comm.NewChaseCommand(comm.Magenta, comm.IntensityHigh, comm.Blue, comm.IntensityLow, comm.SpeedFast, comm.Clockwise), 5},
	"error": {
		comm.NewFlashCommand(comm.Red, comm.IntensityHigh, comm.SpeedFast, comm.PatternStrobe).WithAudible(comm.AudiblePulsed),
		6,
	},
}

// stateTable resolves state names to commands. Configured states replace or
// extend the built-in ones.
type stateTable map[string]lightState

func newStateTable(configured map[string]stateConfig) (stateTable, error) {
	table := make(stateTable, len(builtinStates)+len(configured))
	for name, state := range builtinStates {
		table[name] = state
	}
	for name, cfg := range configured {
		cmd, err := cfg.Command()
		if err != nil {
			return nil, fmt.Errorf("state %s: %w", name, err)
		}
		priority := cfg.Priority
		if priority == 0 {
			if builtin, ok := builtinStates[name]; ok {
				priority = builtin.priority
			}
		}
		table[name] = lightState{command: cmd, priority: priority}
	}
	return table, nil
}

func (t stateTable) resolve(name string) (comm.Command, error) {
	state, ok := t[name]
	if !ok {
		return comm.Command{}, fmt.Errorf("unknown state %q", name)
	}
	return state.command, nil
}

func (t stateTable) names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// appState combines the sources into the single state the light shows: the
// one with the highest priority wins, and "idle" when no source says anything.
type appState struct {
	states     stateTable
	feed       string
	mattermost apis.MattermostState
}

func (s *appState) mattermostStateName() string {
	switch {
	case s.mattermost.HasMentions:
		return "mention"
	case s.mattermost.HasMessages:
		return "message"
	default:
		return ""
	}
}

func (s *appState) current() string {
	best := "idle"
	bestPriority := -1
	for _, name := range []string{s.feed, s.mattermostStateName()} {
		state, ok := s.states[name]
		if name == "" || !ok {
			continue
		}
		if state.priority > bestPriority {
			best, bestPriority = name, state.priority
		}
	}
	return best
}

func (s *appState) command() comm.Command {
	cmd, err := s.states.resolve(s.current())
	if err != nil {
		return comm.NewSteadyCommand(comm.Green, comm.IntensityLow)
	}
	return cmd
}

// showFancyIntro plays a short color sequence. It stops early when ctx is done.
func showFancyIntro(ctx context.Context, light comm.Handle, delay time.Duration) {
	steps := []comm.Command{
		comm.NewSteadyCommand(comm.Red, comm.IntensityHigh),
		comm.NewSteadyCommand(comm.Amber, comm.IntensityHigh),
		comm.NewSteadyCommand(comm.Green, comm.IntensityHigh),
		comm.NewChaseCommand(comm.White, comm.IntensityHigh, comm.Blue, comm.IntensityLow, comm.SpeedFast, comm.Clockwise),
	}
	for _, cmd := range steps {
		if err := light.EnqueueContext(ctx, cmd); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
	log.Debug().Msg("intro done")
}
