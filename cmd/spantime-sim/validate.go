package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/decker502/spantime/pkg/config"
	"github.com/decker502/spantime/pkg/ecs"
	"github.com/decker502/spantime/pkg/entities"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scene...]",
		Short: "Check that scene files load and build",
		Long:  "Validate loads each scene (or --scene when no arguments are given) and builds its entities without stepping them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{v.GetString(keyScene)}
			}

			failed := 0
			for _, path := range paths {
				timelines, spans, err := validateScene(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "✗ %v\n", err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s (%d timelines, %d spans)\n", path, timelines, spans)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d scenes are invalid", failed, len(paths))
			}
			return nil
		},
	}
}

// validateScene 加载并创建场景实体，返回时间线和 Span 数量
func validateScene(path string) (int, int, error) {
	cfg, err := config.LoadScene(path)
	if err != nil {
		return 0, 0, err
	}

	em := ecs.NewEntityManager()
	scene, err := entities.BuildScene(em, cfg)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", path, err)
	}

	spans := 0
	for _, ids := range scene.Spans {
		spans += len(ids)
	}
	return len(scene.Timelines), spans, nil
}
