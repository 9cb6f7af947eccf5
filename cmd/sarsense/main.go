package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"sarsense/pkg/config"
	"sarsense/pkg/control"
	"sarsense/pkg/loop"
	"sarsense/pkg/sar"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., /dev/ttyACM0 or COM3)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use mocked device instead of serial port")
		listFlag   = flag.Bool("list-ports", false, "List available serial ports and exit")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *listFlag {
		ports, err := sar.Ports()
		if err != nil {
			logger.Fatal("failed to list serial ports", zap.Error(err))
		}
		for _, p := range ports {
			fmt.Println(p.Name)
		}
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Build the device (boundary initialization; failures here are fatal).
	var device sar.Device
	if *mockFlag {
		device = sar.NewMock(&cfg.Mock)
	} else {
		device = sar.NewSerial(cfg.Serial.Port, cfg.Serial.BaudRate, logger)
	}

	if err := device.Connect(); err != nil {
		logger.Fatal("failed to connect to device",
			zap.String("port", cfg.Serial.Port), zap.Error(err))
	}
	defer device.Close()

	printBanner()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := loop.New(cfg, device, device, control.WriterSink{W: os.Stdout}, logger)
	if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("processing loop failed", zap.Error(err))
	}

	logger.Info("shutting down")
}

// printBanner clears the terminal and prints the startup header.
func printBanner() {
	// \x1b[2J\x1b[;H - ANSI ESC sequence for clear screen
	fmt.Print("\x1b[2J\x1b[;H")

	fmt.Println("---------------------------------------------------------------------------")
	fmt.Println("SAR ADC Low-Power Sensing - Thermistor and Ambient Light Sensor")
	fmt.Println("---------------------------------------------------------------------------")
	fmt.Println()
	fmt.Println("Touch the thermistor and block/increase the light over the ambient light")
	fmt.Println("sensor to observe change in the readings.")
	fmt.Println()
}
