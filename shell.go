package main

import (
	"errors"
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/thiefmaster/towerlight/comm"
)

var errUsage = errors.New("wrong number of arguments")

// commandFromArgs builds a command from a shell line, e.g.
// "flash red high fast strobe" or "state warning".
func commandFromArgs(states stateTable, name string, args []string) (comm.Command, error) {
	arg := func(i int, def string) string {
		if i < len(args) {
			return args[i]
		}
		return def
	}

	switch name {
	case "enable":
		return comm.NewEnableCommand(), nil
	case "off":
		return comm.NewOffCommand(), nil
	case "steady", "flash", "sweep":
		if len(args) < 1 {
			return comm.Command{}, errUsage
		}
		color, err := comm.ParseColor(args[0])
		if err != nil {
			return comm.Command{}, err
		}
		intensity, err := comm.ParseIntensity(arg(1, "high"))
		if err != nil {
			return comm.Command{}, err
		}
		if name == "steady" {
			return comm.NewSteadyCommand(color, intensity), nil
		}
		speed, err := comm.ParseSpeed(arg(2, "standard"))
		if err != nil {
			return comm.Command{}, err
		}
		if name == "sweep" {
			return comm.NewIntensitySweepCommand(color, intensity, speed), nil
		}
		pattern, err := comm.ParsePattern(arg(3, "normal"))
		if err != nil {
			return comm.Command{}, err
		}
		return comm.NewFlashCommand(color, intensity, speed, pattern), nil
	case "state":
		if len(args) != 1 {
			return comm.Command{}, errUsage
		}
		return states.resolve(args[0])
	default:
		return comm.Command{}, fmt.Errorf("unknown command %q", name)
	}
}

type shellCommand struct {
	name string
	help string
}

var shellCommands = []shellCommand{
	{"enable", "enable: send the enable command"},
	{"off", "off: switch the light off"},
	{"steady", "steady <color> [intensity]"},
	{"flash", "flash <color> [intensity] [speed] [pattern]"},
	{"sweep", "sweep <color> [intensity] [speed]"},
	{"state", "state <name>"},
}

// shellSession holds what the shell remembers between lines. The audible
// override only applies once the user picked a mode with "audible".
type shellSession struct {
	states  stateTable
	audible *comm.Audible
}

func (s *shellSession) setAudible(args []string) (comm.Audible, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	a, err := comm.ParseAudible(args[0])
	if err != nil {
		return 0, err
	}
	s.audible = &a
	return a, nil
}

func (s *shellSession) command(name string, args []string) (comm.Command, error) {
	command, err := commandFromArgs(s.states, name, args)
	if err != nil {
		return comm.Command{}, err
	}
	if s.audible != nil {
		command = command.WithAudible(*s.audible)
	}
	return command, nil
}

func runShell(light comm.Handle, states stateTable) {
	shell := ishell.New()
	shell.Println("Tower light shell")

	session := &shellSession{states: states}
	for _, sc := range shellCommands {
		name := sc.name
		cmd := &ishell.Cmd{
			Name: name,
			Help: sc.help,
			Func: func(c *ishell.Context) {
				command, err := session.command(name, c.Args)
				if err != nil {
					c.Err(err)
					return
				}
				light.Enqueue(command)
				c.Printf("queued %s\n", command)
			},
		}
		if name == "state" {
			cmd.Completer = func([]string) []string { return states.names() }
		}
		shell.AddCmd(cmd)
	}

	shell.AddCmd(&ishell.Cmd{
		Name: "audible",
		Help: "audible <off|steady|pulsed|sos>: audible mode for following commands",
		Func: func(c *ishell.Context) {
			a, err := session.setAudible(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("audible %s\n", a)
		},
	})

	shell.Run()
}
