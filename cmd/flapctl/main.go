package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calvinmclean/splitflap/controller"
	"github.com/calvinmclean/splitflap/journal"
	"github.com/calvinmclean/splitflap/ui"
)

var (
	configFile  string
	serialPort  string
	baudRate    string
	journalAddr string
	verbose     bool
	serveAddr   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flapctl",
		Short: "Control a split-flap module over serial or simulate one",
		Long: "Reads commands from stdin and sends them to the module. Without a serial port a simulated module " +
			"runs in-process. Configure with --config or SERIAL_PORT, BAUD_RATE, JOURNAL_ADDR, SETTINGS_FILE, MODULE_ID.",
		SilenceUsage: true,
		RunE:         runCLI,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (overrides environment)")
	rootCmd.PersistentFlags().StringVarP(&serialPort, "port", "p", "", "serial port of the module (default: simulated module)")
	rootCmd.PersistentFlags().StringVar(&baudRate, "baud", "", "serial baud rate")
	rootCmd.PersistentFlags().StringVar(&journalAddr, "journal", "", "journal server address for recording measurements")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")

	uiCmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the control panel",
		RunE:  runUI,
	}

	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "List USB serial ports",
		RunE:  listPorts,
	}

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Revolution measurement journal",
	}
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the journal server",
		RunE:  serveJournal,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	journalCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(uiCmd, portsCmd, journalCmd)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func loadConfig() (controller.Config, error) {
	cfg := controller.ConfigFromEnv()
	if configFile != "" {
		var err error
		cfg, err = controller.LoadConfig(configFile)
		if err != nil {
			return controller.Config{}, err
		}
	}
	if serialPort != "" {
		cfg.SerialPort = serialPort
	}
	if baudRate != "" {
		cfg.BaudRate = baudRate
	}
	if journalAddr != "" {
		cfg.JournalAddr = journalAddr
	}
	return cfg, nil
}

func runCLI(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := controller.New(cfg, logger)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	return c.Run(ctx, os.Stdin, os.Stdout)
}

func runUI(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	application := app.NewWithID("io.github.calvinmclean.splitflap")
	configWindow := ui.NewConfigWindow(application)

	var c *controller.Controller
	configWindow.OnSubmit = func() {
		c, err = controller.New(cfg, logger)
		if err != nil {
			ui.ShowError(application, application.NewWindow("Error"), err)
			return
		}

		flapUI := ui.NewFlapUI(application)
		r, w := io.Pipe()

		// read from Stdin also
		go func() {
			_, _ = io.Copy(w, os.Stdin)
		}()

		go func() {
			defer cancel()
			runErr := c.Run(ctx, r, io.MultiWriter(os.Stdout, flapUI))
			if runErr != nil {
				logger.Error("error running controller", zap.Error(runErr))
			}
		}()

		flapUI.Show(ctx, w)
	}
	configWindow.Show(&cfg)

	application.Run()
	cancel()

	if c != nil {
		return c.Close()
	}
	return nil
}

func listPorts(cmd *cobra.Command, _ []string) error {
	ports, err := controller.GetSerialPorts()
	if err != nil {
		return err
	}
	for _, p := range ports {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

func serveJournal(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	server := &http.Server{
		Addr:              serveAddr,
		Handler:           journal.NewAPI().Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("starting journal server", zap.String("addr", serveAddr))
	err = server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
