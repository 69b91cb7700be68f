package ui

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/calvinmclean/splitflap/controller"
)

type ConfigWindow struct {
	app      fyne.App
	OnSubmit func()
}

func NewConfigWindow(app fyne.App) *ConfigWindow {
	return &ConfigWindow{
		app: app,
	}
}

func (cw *ConfigWindow) loadConfigFromPreferences(cfg *controller.Config) {
	prefs := cw.app.Preferences()
	cfg.SerialPort = prefs.StringWithFallback("serialPort", cfg.SerialPort)
	cfg.BaudRate = prefs.StringWithFallback("baudRate", "115200")
	cfg.JournalAddr = prefs.StringWithFallback("journalAddr", cfg.JournalAddr)
	cfg.ModuleID = prefs.StringWithFallback("moduleID", cfg.ModuleID)
	cfg.SettingsFile = prefs.StringWithFallback("settingsFile", cfg.SettingsFile)
}

func (cw *ConfigWindow) saveConfigToPreferences(cfg *controller.Config) {
	prefs := cw.app.Preferences()
	prefs.SetString("serialPort", cfg.SerialPort)
	prefs.SetString("baudRate", cfg.BaudRate)
	prefs.SetString("journalAddr", cfg.JournalAddr)
	prefs.SetString("moduleID", cfg.ModuleID)
	prefs.SetString("settingsFile", cfg.SettingsFile)
}

func (cw *ConfigWindow) Show(cfg *controller.Config) {
	window := cw.app.NewWindow("Split-Flap - Configuration")
	window.Resize(fyne.NewSize(400, 250))
	window.SetCloseIntercept(func() {
		// Treat window close as cancel
		window.Close()
		cw.app.Quit()
	})
	window.Show()

	// Load config from preferences
	cw.loadConfigFromPreferences(cfg)

	serialPorts, err := controller.GetSerialPorts()
	if err != nil && !errors.Is(err, controller.ErrNoUSBSerial) {
		ShowError(cw.app, window, fmt.Errorf("error getting serial ports: %w", err))
		return
	}

	serialPorts = append(serialPorts, controller.SerialPortNone)

	serialEntry := widget.NewSelect(serialPorts, nil)
	if cfg.SerialPort == "" {
		cfg.SerialPort = serialPorts[0]
	}
	serialEntry.Bind(binding.BindString(&cfg.SerialPort))

	baudRateEntry := widget.NewEntry()
	baudRateEntry.Bind(binding.BindString(&cfg.BaudRate))

	journalAddrEntry := widget.NewEntry()
	journalAddrEntry.SetPlaceHolder("optional")
	journalAddrEntry.Bind(binding.BindString(&cfg.JournalAddr))

	moduleIDEntry := widget.NewEntry()
	moduleIDEntry.SetPlaceHolder("optional")
	moduleIDEntry.Bind(binding.BindString(&cfg.ModuleID))

	settingsFileEntry := widget.NewEntry()
	settingsFileEntry.SetPlaceHolder("simulated module only")
	settingsFileEntry.Bind(binding.BindString(&cfg.SettingsFile))

	submitButton := widget.NewButton("Submit", func() {
		cw.saveConfigToPreferences(cfg)
		cw.OnSubmit()
		window.Close()
	})
	submitButton.Disable()

	validateForm := func() {
		if cfg.SerialPort != "" && cfg.Validate() == nil {
			submitButton.Enable()
			return
		}
		submitButton.Disable()
	}

	// Add listeners to field changes
	serialEntry.OnChanged = func(_ string) { validateForm() }
	baudRateEntry.OnChanged = func(_ string) { validateForm() }
	settingsFileEntry.OnChanged = func(_ string) { validateForm() }

	// Initial validation
	validateForm()

	form := container.NewVBox(
		widget.NewCard("Configuration", "", container.NewVBox(
			container.NewGridWithColumns(2,
				widget.NewLabel("Serial Port:"),
				serialEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Baud Rate:"),
				baudRateEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Journal Address:"),
				journalAddrEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Module ID:"),
				moduleIDEntry,
			),
			container.NewGridWithColumns(2,
				widget.NewLabel("Settings File:"),
				settingsFileEntry,
			),
		)),
		container.NewHBox(
			widget.NewButton("Cancel", func() {
				window.Close()
				cw.app.Quit()
			}),
			submitButton,
		),
	)

	window.SetContent(form)
}

// ShowError shows err and quits the app once it is dismissed
func ShowError(app fyne.App, window fyne.Window, err error) {
	d := dialog.NewError(err, window)
	d.SetOnClosed(func() {
		app.Quit()
	})
	d.Show()
}
