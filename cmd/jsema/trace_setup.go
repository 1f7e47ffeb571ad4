package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jsema/internal/project"
	"jsema/internal/trace"
)

// setupTracing builds the tracer described by cfg and the ring/heartbeat
// flags and attaches it to the command context. It returns a cleanup
// function that flushes and closes the tracer.
func setupTracing(cmd *cobra.Command, cfg *project.Config) (func(), error) {
	root := cmd.Root()

	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	tcfg, err := cfg.TracerConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid trace configuration: %w", err)
	}
	if tcfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	tcfg.RingSize = ringSize
	tcfg.Heartbeat = heartbeatInterval

	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cleanup := func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		// кольцо выгружается только в конце
		if ring, ok := tracer.(*trace.RingTracer); ok {
			if err := dumpRing(ring, tcfg); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

func dumpRing(ring *trace.RingTracer, cfg trace.Config) error {
	format := cfg.Format
	if format == trace.FormatAuto {
		format = trace.FormatText
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return ring.Dump(os.Stderr, format)
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return err
	}
	if err := ring.Dump(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
