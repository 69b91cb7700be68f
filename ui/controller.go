package ui

import (
	"io"
	"strconv"
	"time"
)

// controllerWrapper turns UI actions into console lines for the module
type controllerWrapper struct {
	writer           io.Writer
	lastCommandTimer *timer
}

func (c *controllerWrapper) send(line string) {
	if c.lastCommandTimer != nil {
		c.lastCommandTimer.Set(time.Now())
	}
	_, _ = io.WriteString(c.writer, line+"\n")
}

// GoToCharacter sends the character as its own line. Digits are sent as their index because a numeric
// line selects a flap by index.
func (c *controllerWrapper) GoToCharacter(char byte, index int) {
	if char >= '0' && char <= '9' {
		c.send(strconv.Itoa(index))
		return
	}
	c.send(string(char))
}

func (c *controllerWrapper) Command(name string) {
	c.send(name)
}

func (c *controllerWrapper) Move(steps int64) {
	c.send("MOVE " + strconv.FormatInt(steps, 10))
}

func (c *controllerWrapper) SetZeroOffset(degrees int64) {
	c.send("ZOFFSET " + strconv.FormatInt(degrees, 10))
}

func (c *controllerWrapper) SetStepOffset(steps int64) {
	c.send("OFFSET " + strconv.FormatInt(steps, 10))
}
