package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/decker502/spantime/pkg/components"
	"github.com/decker502/spantime/pkg/config"
	"github.com/decker502/spantime/pkg/ecs"
	"github.com/decker502/spantime/pkg/entities"
	"github.com/decker502/spantime/pkg/systems"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step a scene and print span progress per frame",
		Long: `Run builds every timeline of the scene, steps them --frames times by --dt seconds
and prints one row per timeline per frame. Spans without progress this frame print "-".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadScene(v.GetString(keyScene))
			if err != nil {
				return err
			}
			return simulate(cmd.OutOrStdout(), cfg, simOptions{
				Dt:      v.GetFloat64(keyDt),
				Frames:  v.GetInt(keyFrames),
				Workers: v.GetInt(keyWorkers),
			})
		},
	}

	cmd.Flags().Float64(keyDt, 0.1, "seconds per frame")
	cmd.Flags().Int(keyFrames, 60, "number of frames")
	cmd.Flags().Int(keyWorkers, 0, "parallel workers (0 = GOMAXPROCS)")
	_ = v.BindPFlag(keyDt, cmd.Flags().Lookup(keyDt))
	_ = v.BindPFlag(keyFrames, cmd.Flags().Lookup(keyFrames))
	_ = v.BindPFlag(keyWorkers, cmd.Flags().Lookup(keyWorkers))
	return cmd
}

type simOptions struct {
	Dt      float64
	Frames  int
	Workers int
}

// simulate 推进场景并把每帧的进度写成表格
func simulate(w io.Writer, cfg *config.SceneConfig, opts simOptions) error {
	if math.IsNaN(opts.Dt) || math.IsInf(opts.Dt, 0) {
		return fmt.Errorf("dt must be a finite number, got %v", opts.Dt)
	}
	if opts.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", opts.Frames)
	}

	em := ecs.NewEntityManager()
	scene, err := entities.BuildScene(em, cfg)
	if err != nil {
		return err
	}
	runner := systems.NewRunner(em, opts.Workers)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "frame\ttimeline\tnow\tdir\tspans\tevent")

	for frame := 1; frame <= opts.Frames; frame++ {
		ended := runner.Step(opts.Dt)
		events := make(map[ecs.EntityID]string, len(ended))
		for _, ev := range ended {
			events[ev.Timeline] = ev.String()
		}

		for _, id := range scene.Timelines {
			comp, ok := ecs.GetComponent[*components.TimelineComponent](em, id)
			if !ok {
				continue
			}
			fmt.Fprintf(tw, "%d\t%s\t%.3f\t%s\t%s\t%s\n",
				frame,
				comp.Name,
				comp.Timeline.Elapsed().Now,
				comp.Timeline.MotionDirection(),
				spanColumn(em, runner.Tracker(), scene.Spans[id]),
				events[id],
			)
		}
	}
	return tw.Flush()
}

// spanColumn 形如 "slide=0.50 flash=-"
func spanColumn(em *ecs.EntityManager, tracker *systems.SpanTrackerSystem, spans []ecs.EntityID) string {
	parts := make([]string, 0, len(spans))
	for _, id := range spans {
		sc, ok := ecs.GetComponent[*components.SpanComponent](em, id)
		if !ok {
			continue
		}
		p, ok := tracker.Progress(id)
		if !ok {
			parts = append(parts, sc.Name+"=-")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%.2f", sc.Name, p.NowPercentage))
	}
	return strings.Join(parts, " ")
}
