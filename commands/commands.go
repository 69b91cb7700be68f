package commands

import (
	"errors"
	"strconv"
	"strings"

	"github.com/calvinmclean/splitflap"
	"github.com/calvinmclean/splitflap/device"
)

const separator = "-------------------------------------------"

// Controller is used to control a flap module
type Controller interface {
	GoToCharacter(byte) error
	GoToIndex(int) error
	MoveSteps(int64) error
	Home() error
	MeasureRevolution() (int64, error)
	Reset() error
	State() device.State
	SetZeroOffsetDegrees(int64) (int64, error)
	SetStepOffset(int64) (int64, error)
	Verbose()
}

type Command struct {
	Name        string
	Usage       string
	Run         func(s *Shell, args []string) error
	Description string
}

var (
	InfoCommand = &Command{
		Name: "INFO",
		Run: func(s *Shell, _ []string) error {
			st := s.Controller.State()
			s.println(separator)
			s.printPosition(st)
			s.println("Magnet has passed ", strconv.FormatUint(uint64(st.MagnetPassCount), 10), " times since Zeroing")
			s.println("Zero Offset (Degrees): ", itoa(st.ZeroOffsetDegrees))
			s.println("Step Offset (Steps): ", itoa(st.StepOffset))
			return nil
		},
		Description: "Print current information",
	}
	ZeroCommand = &Command{
		Name: "ZERO",
		Run: func(s *Shell, _ []string) error {
			return s.Controller.Home()
		},
		Description: "Re-index using magnet",
	}
	PositionCommand = &Command{
		Name: "POS",
		Run: func(s *Shell, _ []string) error {
			s.println(separator)
			s.printPosition(s.Controller.State())
			return nil
		},
		Description: "Print current position in steps and degrees",
	}
	ListCommand = &Command{
		Name: "LIST",
		Run: func(s *Shell, _ []string) error {
			s.println(separator)
			s.println("Character Index List:")
			for i, f := range splitflap.Flaps() {
				s.println(strconv.Itoa(i), ": ", string(f.Character))
			}
			return nil
		},
		Description: "Print character index list",
	}
	ResetCommand = &Command{
		Name: "RESET",
		Run: func(s *Shell, _ []string) error {
			err := s.Controller.Reset()
			if err != nil {
				return err
			}
			s.println("Offsets and counters reset to defaults. Stored settings are unchanged.")
			return nil
		},
		Description: "Simulate a reset",
	}
	RevolutionCommand = &Command{
		Name: "REV",
		Run: func(s *Shell, _ []string) error {
			_, err := s.Controller.MeasureRevolution()
			return err
		},
		Description: "Measure steps in one revolution",
	}
	CountCommand = &Command{
		Name: "COUNT",
		Run: func(s *Shell, _ []string) error {
			s.println(separator)
			s.println("Magnet has passed ", strconv.FormatUint(uint64(s.Controller.State().MagnetPassCount), 10), " times since last zeroing.")
			return nil
		},
		Description: "Show magnet pass count",
	}
	MoveCommand = &Command{
		Name:  "MOVE",
		Usage: "<steps>",
		Run: func(s *Shell, args []string) error {
			if len(args) != 1 {
				return errors.New("usage: MOVE <steps>")
			}
			steps, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.New("invalid steps: " + args[0])
			}
			return s.Controller.MoveSteps(steps)
		},
		Description: "Move forward by N steps",
	}
	ZeroOffsetCommand = &Command{
		Name:  "ZOFFSET",
		Usage: "[degrees]",
		Run: func(s *Shell, args []string) error {
			return s.setOffset(args, zeroOffset)
		},
		Description: "Set magnet-to-flap offset in degrees",
	}
	StepOffsetCommand = &Command{
		Name:  "OFFSET",
		Usage: "[steps]",
		Run: func(s *Shell, args []string) error {
			return s.setOffset(args, stepOffset)
		},
		Description: "Apply global step offset",
	}
	ConfigCommand = &Command{
		Name: "CONFIG",
		Run: func(s *Shell, _ []string) error {
			if s.Settings == nil {
				return errors.New("no settings store")
			}
			return s.Settings.Print(s.out)
		},
		Description: "Print stored settings",
	}
	IDCommand = &Command{
		Name: "ID",
		Run: func(s *Shell, _ []string) error {
			s.println("Module ID: ", s.ModuleID)
			return nil
		},
		Description: "Print the module ID",
	}
	VerboseCommand = &Command{
		Name: "VERBOSE",
		Run: func(s *Shell, _ []string) error {
			s.Controller.Verbose()
			return nil
		},
		Description: "Enable verbose output",
	}
	HelpCommand = &Command{
		Name: "HELP",
		Run: func(s *Shell, _ []string) error {
			s.println(separator)
			s.println("Available Commands:")
			s.println("***<number>  - Move to flap index by number")
			for _, cmd := range commands {
				name := cmd.Name
				if cmd.Usage != "" {
					name += " " + cmd.Usage
				}
				s.println("***", pad(name, 18), "- ", cmd.Description)
			}
			s.println("***", pad(helpName, 18), "- Show this help message")
			s.println()
			s.println("Type any single character to move to that flap.")
			return nil
		},
		Description: "Show this help message",
	}
)

// helpName is kept out of the table so HELP can range over it
const helpName = "HELP"

var commands = []*Command{
	InfoCommand,
	ZeroCommand,
	PositionCommand,
	ListCommand,
	ResetCommand,
	RevolutionCommand,
	CountCommand,
	MoveCommand,
	ZeroOffsetCommand,
	StepOffsetCommand,
	ConfigCommand,
	IDCommand,
	VerboseCommand,
}

func commandMap() map[string]*Command {
	cmdMap := map[string]*Command{
		helpName: HelpCommand,
	}
	for _, cmd := range commands {
		cmdMap[cmd.Name] = cmd
	}
	return cmdMap
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
