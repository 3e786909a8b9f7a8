// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 The ibisctl authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signwerk/ibisctl/pkg/ibis"
	"github.com/signwerk/ibisctl/pkg/schedule"
	"github.com/signwerk/ibisctl/pkg/signbus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// runConfig is the YAML schema for unattended installations.
type runConfig struct {
	Serial       string        `yaml:"serial"`
	Baud         int           `yaml:"baud"`
	URL          string        `yaml:"url"`
	IntervalSecs int           `yaml:"interval_secs"`
	Lookahead    float64       `yaml:"lookahead"` // hours
	Addresses    []int         `yaml:"addresses"`
	Blank        *int          `yaml:"blank"`
	Plan         []runPlanSlot `yaml:"plan"`
}

type runPlanSlot struct {
	Destinations []int    `yaml:"destinations"`
	Line         *int     `yaml:"line"`  // line to select alongside, optional
	Slots        []string `yaml:"slots"` // activation windows, "<start>/<end>"
}

var runCmd = &cobra.Command{
	Use:   "run <config.yaml>",
	Short: "Run a destination plan from a config file",
	Long: `Drive the signs from a YAML configuration file until interrupted.

This is the unattended counterpart to the cycle command: the connection,
schedule, and cycling parameters all come from one file, suitable for a
systemd unit on a kiosk or vehicle computer.

Config format:
  serial: /dev/ttyUSB0        # or url: ws://bridge.local/ibis
  baud: 1200
  interval_secs: 10
  lookahead: 1                # hours
  addresses: [1, 3]           # omit for broadcast
  blank: 0                    # omit to hold the last destination
  plan:
    - destinations: [20, 21, 22]
      line: 4                   # optional line selection
    - destinations: [900]
      slots:
        - "2026-12-01T00:00:00/2026-12-24T23:59:59"

Command-line connection flags take precedence over the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func loadRunConfig(path string) (*runConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %v", err)
	}
	cfg := &runConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}
	if len(cfg.Plan) == 0 {
		return nil, fmt.Errorf("config has no plan")
	}
	return cfg, nil
}

func (c *runConfig) buildPlan() (*schedule.Plan, error) {
	plan := &schedule.Plan{}
	for i, entry := range c.Plan {
		slot := schedule.Slot{Destinations: entry.Destinations, Line: entry.Line}
		for _, spec := range entry.Slots {
			window, err := schedule.ParseWindow(spec)
			if err != nil {
				return nil, fmt.Errorf("plan entry %d: %v", i, err)
			}
			slot.Windows = append(slot.Windows, window)
		}
		plan.Slots = append(plan.Slots, slot)
	}
	return plan, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(args[0])
	if err != nil {
		return err
	}

	// Flags beat the file so a technician can redirect a deployed
	// config to a bench setup without editing it.
	if portName == "" && wsURL == "" {
		portName = cfg.Serial
		wsURL = cfg.URL
	}
	if !cmd.Flags().Changed("baud") && cfg.Baud != 0 {
		baudRate = cfg.Baud
	}

	plan, err := cfg.buildPlan()
	if err != nil {
		return err
	}

	addresses := make([]ibis.Address, 0, len(cfg.Addresses))
	for _, a := range cfg.Addresses {
		addresses = append(addresses, ibis.Address(a))
	}

	cyclerCfg := signbus.CyclerConfig{
		Lookahead: time.Duration(cfg.Lookahead * float64(time.Hour)),
		Addresses: addresses,
		BlankCode: cfg.Blank,
	}
	if cfg.IntervalSecs > 0 {
		cyclerCfg.Interval = time.Duration(cfg.IntervalSecs) * time.Second
	}

	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	session := signbus.NewBus(conn).Acquire()
	defer session.Release()

	cycler, err := signbus.NewCycler(session, plan, cyclerCfg)
	if err != nil {
		return err
	}

	fmt.Printf("Ibisctl - Plan Runner\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Config: %s, slots: %d\n\n", args[0], len(plan.Slots))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cycler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
