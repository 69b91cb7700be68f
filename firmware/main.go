//go:build tinygo

package main

import (
	"context"
	"machine"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/calvinmclean/splitflap/commands"
	"github.com/calvinmclean/splitflap/device"
	"github.com/calvinmclean/splitflap/firmware/hardware"
	"github.com/calvinmclean/splitflap/settings"
)

const (
	stepDelay = 1000 * time.Microsecond

	// useEasyStepper selects the drivers package stepper instead of driving the coils directly
	useEasyStepper = false
)

var (
	coilPins = [4]machine.Pin{machine.GP16, machine.GP17, machine.GP18, machine.GP19}
	hallPin  = machine.GP15
)

func main() {
	// give the USB serial console time to connect
	time.Sleep(2 * time.Second)

	stepper, err := newStepper()
	if err != nil {
		panic(err)
	}

	store, err := hardware.OpenFlashStore()
	if err != nil {
		println("error opening settings, using defaults:", err.Error())
		store = settings.NewMemoryStore()
	}

	d, err := device.New(
		hardware.NewMotor(stepper, clock.New(), stepDelay),
		hardware.NewHall(hallPin),
		nil,
		device.DefaultConfig(),
	)
	if err != nil {
		panic(err)
	}
	d.SetOutput(machine.Serial)

	shell := commands.NewShell(
		d,
		settings.NewConfig(store),
		hardware.ModuleID(),
		hardware.NewSerialReader(machine.Serial),
		machine.Serial,
	)

	err = shell.Start()
	if err != nil {
		println("error: " + err.Error())
	}

	for {
		err = shell.Run(context.Background())
		if err != nil {
			println("error: " + err.Error())
		}
		time.Sleep(time.Second)
	}
}

func newStepper() (hardware.Stepper, error) {
	if useEasyStepper {
		// 4096 half steps at 11 RPM is about 750 steps/s
		return hardware.NewEasyStepper(coilPins, 4096, 11)
	}
	return hardware.NewCoils(hardware.CoilsConfig{
		Pins:      coilPins,
		StepMode:  hardware.StepModeHalf,
		StepDelay: stepDelay,
	})
}
