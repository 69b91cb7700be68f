package settings

import (
	"io"
	"strconv"

	"github.com/calvinmclean/splitflap"
)

// Config reads and writes the calibration values of one module
type Config struct {
	store Store
}

// NewConfig wraps store
func NewConfig(store Store) *Config {
	return &Config{store: store}
}

// ZeroOffset returns the stored zero offset in degrees, writing the default on first use
func (c *Config) ZeroOffset() (int64, error) {
	v, err := c.store.GetInt(KeyZeroOffset, splitflap.DefaultZeroOffsetDegrees)
	return int64(v), err
}

func (c *Config) SetZeroOffset(degrees int64) error {
	return c.store.PutInt(KeyZeroOffset, int32(degrees))
}

// StepOffset returns the stored global step trim, writing the default on first use
func (c *Config) StepOffset() (int64, error) {
	v, err := c.store.GetInt(KeyStepOffset, splitflap.DefaultStepOffset)
	return int64(v), err
}

func (c *Config) SetStepOffset(steps int64) error {
	return c.store.PutInt(KeyStepOffset, int32(steps))
}

// Reserved returns the free-form reserved field
func (c *Config) Reserved() (string, error) {
	return c.store.GetString(KeyReserved, "")
}

func (c *Config) SetReserved(value string) error {
	return c.store.PutString(KeyReserved, value)
}

// Print writes all stored values to w
func (c *Config) Print(w io.Writer) error {
	zero, err := c.ZeroOffset()
	if err != nil {
		return err
	}
	step, err := c.StepOffset()
	if err != nil {
		return err
	}
	reserved, err := c.Reserved()
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, "-------- Settings --------\n"+
		"Zero Offset (degrees): "+strconv.FormatInt(zero, 10)+"\n"+
		"Step Offset (steps): "+strconv.FormatInt(step, 10)+"\n"+
		"Reserved: "+reserved+"\n")
	return err
}
