// Package controller connects the host to a flap module. The module is either real hardware on a serial port
// running the firmware or a simulated module running in-process with the same command shell.
package controller

import (
	"bufio"
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/calvinmclean/splitflap"
	"github.com/calvinmclean/splitflap/commands"
	"github.com/calvinmclean/splitflap/device"
	"github.com/calvinmclean/splitflap/device/sim"
	"github.com/calvinmclean/splitflap/journal"
	"github.com/calvinmclean/splitflap/settings"
	"github.com/calvinmclean/splitflap/settings/yamlfile"
)

// serialIdleTimeout is how long the module must stay quiet after the input ends before Run returns
const serialIdleTimeout = 500 * time.Millisecond

type Controller struct {
	cfg    Config
	logger *zap.Logger

	port serial.Port

	device   *device.Device
	settings *settings.Config

	journal *journal.Client
}

// NewFromEnv creates a Controller from environment variables
func NewFromEnv(logger *zap.Logger) (*Controller, error) {
	return New(ConfigFromEnv(), logger)
}

// New validates cfg and opens the serial port or builds the simulated module
func New(cfg Config, logger *zap.Logger) (*Controller, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	err := cfg.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	cfg.Normalize()

	c := &Controller{
		cfg:    cfg,
		logger: logger.With(zap.String("serial_port", cfg.SerialPort)),
	}

	if cfg.JournalAddr != "" {
		c.journal = journal.NewClient(cfg.JournalAddr, nil)
	}

	if cfg.Simulated() {
		err = c.setupSimulation()
		if err != nil {
			return nil, err
		}
		c.logger.Info("using simulated module", zap.String("module_id", cfg.ModuleID))
		return c, nil
	}

	c.port, err = openSerial(cfg)
	if err != nil {
		return nil, err
	}

	err = c.port.SetReadTimeout(serialIdleTimeout)
	if err != nil {
		return nil, multierr.Append(errors.Wrap(err, "error setting read timeout"), c.port.Close())
	}

	c.logger.Info("opened serial port", zap.Int("baud_rate", cfg.baudRate()))
	return c, nil
}

func (c *Controller) setupSimulation() error {
	var store settings.Store = settings.NewMemoryStore()
	if c.cfg.SettingsFile != "" {
		fileStore, err := yamlfile.Open(c.cfg.SettingsFile)
		if err != nil {
			return errors.Wrap(err, "error opening settings")
		}
		store = fileStore
	}
	c.settings = settings.NewConfig(store)

	m := sim.NewModule(splitflap.StepsPerRevolution, c.cfg.Simulation.StartStep, c.cfg.Simulation.MagnetStep)

	var err error
	c.device, err = device.New(m.Stepper, m.Hall, m.Clock, device.DefaultConfig())
	if err != nil {
		return errors.Wrap(err, "error creating simulated device")
	}

	return nil
}

// Run sends input lines to the module and copies its output to out until the input ends or ctx is cancelled.
// When a journal is configured, measurements in the output are recorded.
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	if c.journal != nil {
		out = io.MultiWriter(out, journal.NewRecorder(ctx, c.journal, c.moduleID(), c.logger))
	}

	if c.device != nil {
		return c.runSimulation(ctx, in, out)
	}
	return c.runSerial(ctx, c.port, in, out)
}

func (c *Controller) moduleID() string {
	if c.cfg.ModuleID != "" {
		return c.cfg.ModuleID
	}
	return c.cfg.SerialPort
}

func (c *Controller) runSimulation(ctx context.Context, in io.Reader, out io.Writer) error {
	c.device.SetOutput(out)
	defer c.device.SetOutput(nil)

	shell := commands.NewShell(c.device, c.settings, c.cfg.ModuleID, in, out)

	err := shell.Start()
	if err != nil {
		c.logger.Error("error starting simulated module", zap.Error(err))
		_, _ = io.WriteString(out, "error: "+err.Error()+"\n")
	}

	err = shell.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "error running shell")
	}
	return nil
}

func (c *Controller) runSerial(ctx context.Context, port io.ReadWriter, in io.Reader, out io.Writer) error {
	var inputDone atomic.Bool

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer inputDone.Store(true)
		return c.writeSerial(ctx, port, in)
	})

	g.Go(func() error {
		return c.readSerial(ctx, port, out, &inputDone)
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// writeSerial sends each input line to the port. The input is scanned in its own goroutine so a blocked
// reader such as stdin does not keep writeSerial running after ctx is done.
func (c *Controller) writeSerial(ctx context.Context, port io.Writer, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				scanErr <- ctx.Err()
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return errors.Wrap(<-scanErr, "error reading input")
			}

			c.logger.Debug("sending command", zap.String("line", line))

			_, err := port.Write([]byte(line + "\n"))
			if err != nil {
				return errors.Wrap(err, "error writing serial")
			}
		}
	}
}

// readSerial copies module output until ctx is done or the input has ended and the module goes quiet
func (c *Controller) readSerial(ctx context.Context, port io.Reader, out io.Writer, inputDone *atomic.Bool) error {
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := port.Read(buf)
		if err != nil {
			var portErr *serial.PortError
			if errors.As(err, &portErr) && portErr.Code() == serial.PortClosed {
				return nil
			}
			return errors.Wrap(err, "error reading serial")
		}

		if n == 0 {
			if inputDone.Load() {
				return nil
			}
			continue
		}

		_, err = out.Write(buf[:n])
		if err != nil {
			return errors.Wrap(err, "error writing output")
		}
	}
}

// Close releases the serial port
func (c *Controller) Close() error {
	if c.port == nil {
		return nil
	}
	return errors.Wrap(c.port.Close(), "error closing serial port")
}
