package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/fredericvl/go-efesto/pkg/efesto"
	"github.com/spf13/cobra"
)

var (
	flagURL      string
	flagUsername string
	flagPassword string
	flagDevice   string
	flagDebug    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Efesto portal URL (e.g. https://evastampaggi.efesto.web2app.it)")
	rootCmd.PersistentFlags().StringVar(&flagUsername, "username", "", "Efesto account username")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "Efesto account password")
	rootCmd.PersistentFlags().StringVar(&flagDevice, "device", "", "Device ID (MAC address without separators)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(setTempCmd)
	rootCmd.AddCommand(setPowerCmd)
}

func getClient() *efesto.Client {
	cfg, err := loadSettings()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if flagURL != "" {
		cfg.URL = flagURL
	}
	if flagUsername != "" {
		cfg.Username = flagUsername
	}
	if flagPassword != "" {
		cfg.Password = flagPassword
	}
	if flagDevice != "" {
		cfg.Device = flagDevice
	}

	var opts []efesto.ClientOption
	if flagDebug {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, efesto.WithLogger(logger))
	}

	client, err := efesto.NewClient(cfg.URL, cfg.Username, cfg.Password, cfg.Device, opts...)
	if err != nil {
		fmt.Printf("Error creating client: %v\n", err)
		os.Exit(1)
	}
	return client
}

func printResult(result *efesto.CommandResult, err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if !result.Ok() {
		fmt.Printf("Device refused command: %s (status %d)\n", result.Message, result.Status)
		os.Exit(1)
	}
	fmt.Println("Command sent successfully.")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Validate the configured credentials",
	Run: func(cmd *cobra.Command, args []string) {
		if err := getClient().Login(context.Background()); err != nil {
			fmt.Printf("Login failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Login successful.")
	},
}

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the device status vocabulary",
	Run: func(cmd *cobra.Command, args []string) {
		for code, label := range efesto.SystemModes() {
			fmt.Printf("%2d  %s\n", code, label)
		}
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current device status",
	Run: func(cmd *cobra.Command, args []string) {
		client := getClient()

		status, err := client.Status(context.Background())
		if err != nil {
			fmt.Printf("Error getting status: %v\n", err)
			os.Exit(1)
		}
		if !status.Ok() {
			fmt.Printf("Device reported failure: %s (status %d)\n", status.Message, status.Status)
			os.Exit(1)
		}

		fmt.Printf("Status:       %s (%d)\n", status.DeviceStatusTranslated, status.DeviceStatus)
		fmt.Printf("Alarm:        %s\n", status.DeviceErrorTranslated)
		fmt.Printf("Air temp:     %.1f°C (set %d°C)\n", status.AirTemperature, status.LastSetAirTemperature)
		fmt.Printf("Smoke temp:   %.1f°C\n", status.SmokeTemperature)
		fmt.Printf("Power:        %d (set %d)\n", status.RealPower, status.LastSetPower)
		if status.IdleInfo != "" {
			fmt.Printf("Idle:         %s\n", status.IdleInfo)
		}
	},
}

var onCmd = &cobra.Command{
	Use:   "on",
	Short: "Turn the heater on",
	Run: func(cmd *cobra.Command, args []string) {
		printResult(getClient().SetOn(context.Background()))
	},
}

var offCmd = &cobra.Command{
	Use:   "off",
	Short: "Turn the heater off",
	Run: func(cmd *cobra.Command, args []string) {
		printResult(getClient().SetOff(context.Background()))
	},
}

var setTempCmd = &cobra.Command{
	Use:   "set-temp [value]",
	Short: "Set the target room temperature",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		value, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("Invalid temperature '%s': must be a number\n", args[0])
			os.Exit(1)
		}

		printResult(getClient().SetTemperature(context.Background(), value))
	},
}

var setPowerCmd = &cobra.Command{
	Use:   "set-power [value]",
	Short: "Set the heater power level",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		value, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Printf("Invalid power level '%s': must be a number\n", args[0])
			os.Exit(1)
		}

		printResult(getClient().SetPower(context.Background(), value))
	},
}
