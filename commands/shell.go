package commands

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/calvinmclean/splitflap/device"
	"github.com/calvinmclean/splitflap/settings"
)

// ErrUnknownCommand is returned for lines that are not a command, an index, or a single character
var ErrUnknownCommand = errors.New("unknown command")

// Shell reads commands line by line and runs them against a Controller. Settings is optional and
// enables persistence of offsets and the CONFIG command.
type Shell struct {
	Controller Controller
	Settings   *settings.Config
	ModuleID   string

	lines *bufio.Scanner
	out   io.Writer
	cmds  map[string]*Command
}

func NewShell(c Controller, cfg *settings.Config, moduleID string, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		Controller: c,
		Settings:   cfg,
		ModuleID:   moduleID,
		lines:      bufio.NewScanner(in),
		out:        out,
		cmds:       commandMap(),
	}
}

// Start loads stored offsets into the Controller and zeroes the module. It is the power-on sequence.
// A stored value that cannot be read or applied is reported and the default is kept.
func (s *Shell) Start() error {
	s.println("Split-flap module ", s.ModuleID)
	if s.Settings != nil {
		zero, err := s.Settings.ZeroOffset()
		if err == nil {
			_, err = s.Controller.SetZeroOffsetDegrees(zero)
		}
		if err != nil {
			s.println("error: stored zero offset ", itoa(zero), " not applied, using default: ", err.Error())
		}

		step, err := s.Settings.StepOffset()
		if err == nil {
			_, err = s.Controller.SetStepOffset(step)
		}
		if err != nil {
			s.println("error: stored step offset ", itoa(step), " not applied, using default: ", err.Error())
		}
	}
	return s.Controller.Home()
}

// Run executes lines until the input ends or ctx is cancelled. Command errors are printed and do
// not stop the loop.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, ok := s.readLine()
		if !ok {
			return s.lines.Err()
		}

		err := s.Execute(line)
		if err != nil {
			s.println("error: ", err.Error())
		}
	}
}

// Execute runs a single input line
func (s *Shell) Execute(line string) error {
	line = strings.TrimSuffix(line, "\r")

	// a lone character is a flap, even a space
	if len(line) == 1 && !isDigits(line) {
		return s.Controller.GoToCharacter(line[0])
	}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	if len(fields) == 1 && isDigits(fields[0]) {
		i, err := strconv.Atoi(fields[0])
		if err != nil {
			return device.ErrIndexOutOfRange
		}
		return s.Controller.GoToIndex(i)
	}

	name := strings.ToUpper(fields[0])
	cmd, ok := s.cmds[name]
	if !ok {
		return errors.New(ErrUnknownCommand.Error() + ": " + fields[0] + " (type HELP for a list)")
	}

	return cmd.Run(s, fields[1:])
}

type offsetKind int

const (
	zeroOffset offsetKind = iota
	stepOffset
)

// setOffset changes one of the offsets, from args or interactively, and persists it
func (s *Shell) setOffset(args []string, kind offsetKind) error {
	label, unit := "Zero Offset", "degrees"
	current := s.Controller.State().ZeroOffsetDegrees
	if kind == stepOffset {
		label, unit = "Step Offset", "steps"
		current = s.Controller.State().StepOffset
	}

	if s.Controller.State().Busy {
		return device.ErrBusy
	}

	var raw string
	switch len(args) {
	case 0:
		s.println("Current ", label, " (", unit, "): ", itoa(current))
		s.println("Change ", strings.ToLower(label), "? (y/n):")
		answer, ok := s.readLine()
		if !ok || !strings.EqualFold(strings.TrimSpace(answer), "y") {
			s.println("No changes made.")
			return nil
		}
		s.println("Enter new ", strings.ToLower(label), " (in ", unit, ", integer):")
		raw, ok = s.readLine()
		if !ok {
			s.println("No changes made.")
			return nil
		}
	case 1:
		raw = args[0]
	default:
		return errors.New("expected at most one value")
	}

	// stored as int32
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return errors.New("invalid " + unit + ": " + strings.TrimSpace(raw))
	}

	var prev int64
	if kind == zeroOffset {
		prev, err = s.Controller.SetZeroOffsetDegrees(value)
	} else {
		prev, err = s.Controller.SetStepOffset(value)
	}
	if err != nil {
		return err
	}

	if s.Settings != nil {
		if kind == zeroOffset {
			err = s.Settings.SetZeroOffset(value)
		} else {
			err = s.Settings.SetStepOffset(value)
		}
		if err != nil {
			return errors.New("error saving " + strings.ToLower(label) + ": " + err.Error())
		}
	}

	s.println("Previous ", label, " (", unit, "): ", itoa(prev))
	s.println("New ", label, " (", unit, "): ", itoa(value))
	return nil
}

func (s *Shell) printPosition(st device.State) {
	s.println("Current Step Position: ", itoa(st.Position), " | Degrees: ", strconv.FormatFloat(st.Degrees, 'f', 2, 64))
}

func (s *Shell) readLine() (string, bool) {
	if !s.lines.Scan() {
		return "", false
	}
	return s.lines.Text(), true
}

func (s *Shell) println(parts ...string) {
	for _, p := range parts {
		_, _ = io.WriteString(s.out, p)
	}
	_, _ = io.WriteString(s.out, "\n")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
