package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("unknown log level %q", s)
}

// newLogger builds the command's logger from the persistent flags. The
// returned closer flushes the log file, if any.
func newLogger(cmd *cobra.Command) (*slog.Logger, io.Closer, error) {
	file, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return nil, nil, err
	}

	lvl, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, nil, err
	}

	level, err := parseLevel(lvl)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if file == "" {
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts)), nopCloser{}, nil
	}

	lj := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     7,
		LocalTime:  true,
	}

	return slog.New(slog.NewJSONHandler(lj, opts)), lj, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
