package main

import (
	"github.com/milk9111/starchase/chase"
	"github.com/milk9111/starchase/record"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Run the chase headless at a fixed frame rate and record every frame",
		RunE:  runExport,
	}

	flags := cmd.Flags()
	flags.String("backend", "jsonl", "recording backend: jsonl or sqlite")
	flags.String("out", "./recordings/chase.jsonl", "output file")
	flags.Bool("gzip", false, "gzip the jsonl recording")
	flags.Int("fps", 60, "frames per simulated second")
	bindFlags(cmd, map[string]string{
		"record.backend": "backend",
		"record.path":    "out",
		"record.gzip":    "gzip",
		"record.fps":     "fps",
	})
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	spec, err := loadTuning()
	if err != nil {
		return err
	}
	opts, err := spec.Options(logger)
	if err != nil {
		return err
	}

	rc := cfg.Record
	rc.Path = record.FixExtension(rc.Path, rc.Backend, rc.Gzip)
	sink, err := record.Open(record.Options{Backend: rc.Backend, Path: rc.Path, Gzip: rc.Gzip})
	if err != nil {
		return err
	}
	defer sink.Close()

	log := logger.With().Str("component", "export").Str("backend", rc.Backend).Str("path", rc.Path).Logger()
	log.Info().Int("fps", rc.FPS).Msg("recording chase")

	summary, err := record.Run(cmd.Context(), chase.NewSequence(opts), rc.FPS, sink, log)
	if err != nil {
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}
	cmd.Printf("%d frames, camera travel %.1f, mean distance %.1f, tick cost mean %.3fms p95 %.3fms\n",
		summary.Frames, summary.CameraTravel, summary.MeanDistance, summary.CostMeanMs, summary.CostP95Ms)
	return nil
}
