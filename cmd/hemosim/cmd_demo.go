package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hemosim/hemosim/internal/autoplay"
	"github.com/hemosim/hemosim/internal/cascade"
	"github.com/hemosim/hemosim/internal/logging"
	"github.com/hemosim/hemosim/internal/migration"
	"github.com/hemosim/hemosim/internal/panels"
	"github.com/hemosim/hemosim/internal/protocol"
	"github.com/hemosim/hemosim/internal/scheduler"
	"github.com/hemosim/hemosim/internal/sessionlog"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the cascade in auto-play mode",
		Long: `Run the full teaching sequence hands-free: the auto-play controller
docks each factor in order and the scheduler drives activation episodes,
migrations and the kinetic integrator, exactly as the interactive session
would. Prints each applied action as it lands.

Use --speed to compress the pacing (e.g. --speed 10 runs ten times
faster).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			speed, _ := cmd.Flags().GetFloat64("speed")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			record, _ := cmd.Flags().GetBool("record")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if speed <= 0 {
				speed = 1
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)
			events := logging.NewEventLogger(cfg.SessionDir(), cfg.Logging.Level)
			defer events.Close()

			store := cascade.New()
			ctrl := autoplay.NewController(autoplay.Script(store))

			pace := func(d time.Duration) time.Duration {
				return time.Duration(float64(d) / speed)
			}
			schedCfg := scheduler.Config{
				Protocol: protocol.Timings{
					Approaching: pace(cfg.Pacing.Approaching),
					ESComplex:   pace(cfg.Pacing.ESComplex),
					Cleaving:    pace(cfg.Pacing.Cleaving),
					Releasing:   pace(cfg.Pacing.Releasing),
				},
				Migration: migration.Delays{
					Hold:  pace(cfg.Pacing.MigrationHold),
					Glide: pace(cfg.Pacing.MigrationGlide),
				},
				AutoStepDelay:    pace(cfg.Pacing.AutoStepDelay),
				KineticsInterval: cfg.Pacing.KineticsInterval,
			}

			var recorder *sessionlog.Recorder
			if record || cfg.Session.Record {
				recorder, err = sessionlog.Open(cfg.SessionDir())
				if err != nil {
					return fmt.Errorf("failed to open session recorder: %w", err)
				}
				defer recorder.Close()
				recorder.Attach(store)
				logger.Info("recording session", "id", recorder.SessionID())
			}

			done := make(chan struct{})
			unsub := store.Subscribe(func(ev cascade.Event) {
				if ev.Action == "step_kinetics" {
					return
				}
				if !jsonOut {
					fmt.Printf("  %-24s phase=%s\n", ev.Action, ev.State.Phase)
				}
				events.Log(map[string]any{
					"action":    ev.Action,
					"phase":     ev.State.Phase.String(),
					"reset_key": ev.State.ResetKey,
				})
				if ev.State.FibrinCrosslinked {
					select {
					case <-done:
					default:
						close(done)
					}
				}
			})
			defer unsub()

			sched := scheduler.New(store, ctrl, schedCfg, logger)
			sched.Start()
			defer sched.Stop()

			if !jsonOut {
				fmt.Println("Starting auto-play demonstration...")
			}
			store.SetMode(cascade.ModeAuto)

			select {
			case <-done:
			case <-time.After(timeout):
				return fmt.Errorf("demo did not complete within %v", timeout)
			}

			st := store.Snapshot()
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(demoSummary(st))
			}

			fmt.Println()
			fmt.Println("Clot stabilized. Panel summary:")
			for _, p := range panels.Panels() {
				proj := panels.Project(st, p)
				fmt.Printf("  %-14s %d/%d steps complete\n", p, proj.CurrentStepIndex, proj.TotalSteps)
			}
			fmt.Println()
			fmt.Println("Objectives:")
			for _, o := range st.Objectives {
				mark := " "
				if o.Done {
					mark = "x"
				}
				fmt.Printf("  [%s] %s\n", mark, o.Label)
			}
			return nil
		},
	}

	cmd.Flags().Float64("speed", 1, "Pacing speed multiplier")
	cmd.Flags().Duration("timeout", 5*time.Minute, "Abort if the run takes longer than this")
	cmd.Flags().Bool("record", false, "Record the session to the sqlite session log")

	return cmd
}

func demoSummary(st cascade.State) map[string]any {
	objectives := make([]map[string]any, 0, len(st.Objectives))
	done := 0
	for _, o := range st.Objectives {
		if o.Done {
			done++
		}
		objectives = append(objectives, map[string]any{
			"id":    o.ID,
			"label": o.Label,
			"done":  o.Done,
		})
	}
	panelSummary := make(map[string]any)
	for _, p := range panels.Panels() {
		proj := panels.Project(st, p)
		panelSummary[p.String()] = map[string]any{
			"complete":    proj.IsPanelComplete,
			"steps_done":  proj.CurrentStepIndex,
			"total_steps": proj.TotalSteps,
		}
	}
	return map[string]any{
		"phase":              st.Phase.String(),
		"fibrin_crosslinked": st.FibrinCrosslinked,
		"objectives":         objectives,
		"objectives_done":    done,
		"panels":             panelSummary,
	}
}
