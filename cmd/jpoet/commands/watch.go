package commands

import (
	"context"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/teranos/jpoet/am"
	"github.com/teranos/jpoet/errors"
	"github.com/teranos/jpoet/logger"
)

// WatchCmd regenerates sources whenever a descriptor or jpoet.toml changes
var WatchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	flags := &renderFlags{}
	var execLine string
	cmd := &cobra.Command{
		Use:   "watch <descriptor>...",
		Short: "Regenerate sources when descriptors change",
		Long: `Generate once, then watch the descriptors and the project jpoet.toml and
regenerate after every change. Rapid saves are merged using
watch.debounce_ms from the configuration.

A changed descriptor regenerates only itself. A changed jpoet.toml, or the
filer sink (whose manifest lists every file), regenerates everything.

--exec runs a command after every successful round, for example a compiler:
  jpoet watch -o src/main/java --exec "mvn -q compile" api/*.yaml

Stop with Ctrl-C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session, err := newWatchSession(ctx, cmd, flags, args)
			if err != nil {
				return err
			}
			if err := session.setExec(execLine); err != nil {
				return err
			}
			if err := session.regenerate(session.descriptors); err != nil {
				return err
			}

			cfg, err := flags.resolveConfig(cmd)
			if err != nil {
				return err
			}
			watched := append([]string(nil), session.descriptors...)
			if session.configPath != "" {
				watched = append(watched, session.configPath)
			}

			w, err := am.NewWatcher(time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, watched...)
			if err != nil {
				return err
			}
			w.OnChange(session.regenerate)
			am.SetGlobalWatcher(w)
			w.Start()

			logger.Infow("Watching for changes",
				logger.FieldCommand, "watch",
				logger.FieldCount, len(watched))

			<-ctx.Done()
			am.SetGlobalWatcher(nil)
			return w.Stop()
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVar(&execLine, "exec", "", "Command to run after each successful regeneration")
	return cmd
}

// watchSession holds what a regeneration round needs
type watchSession struct {
	ctx         context.Context
	cmd         *cobra.Command
	stdout      io.Writer
	flags       *renderFlags
	descriptors []string
	configPath  string
	exec        []string
}

func newWatchSession(ctx context.Context, cmd *cobra.Command, flags *renderFlags, paths []string) (*watchSession, error) {
	descriptors := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s", p)
		}
		descriptors = append(descriptors, abs)
	}

	configPath := am.ProjectConfigPath()
	if configPath != "" {
		if abs, err := filepath.Abs(configPath); err == nil {
			configPath = abs
		}
	}

	return &watchSession{
		ctx:         ctx,
		cmd:         cmd,
		stdout:      cmd.OutOrStdout(),
		flags:       flags,
		descriptors: descriptors,
		configPath:  configPath,
	}, nil
}

// regenerate is the watcher callback. changed holds absolute paths.
func (s *watchSession) regenerate(changed []string) error {
	targets := changed
	for _, path := range changed {
		if path == s.configPath {
			// Settings changed: reload and rebuild everything
			am.Reset()
			targets = s.descriptors
			break
		}
	}

	cfg, err := s.flags.resolveConfig(s.cmd)
	if err != nil {
		return err
	}
	if cfg.GetSink() == am.SinkFiler {
		targets = s.descriptors
	}

	files, err := buildAll(targets, defaultsFor(cfg))
	if err != nil {
		logger.Errorw("Regeneration failed",
			logger.FieldCommand, "watch",
			logger.FieldError, err)
		return err
	}
	if err := emit(s.ctx, s.stdout, files, cfg.Output); err != nil {
		return err
	}
	return s.runExec()
}

// setExec parses line with shell quoting rules into the post-round command
func (s *watchSession) setExec(line string) error {
	if strings.TrimSpace(line) == "" {
		s.exec = nil
		return nil
	}
	argv, err := shellquote.Split(line)
	if err != nil {
		return errors.NewInvalidArgumentf("cannot parse --exec %q: %v", line, err)
	}
	s.exec = argv
	return nil
}

// runExec runs the --exec command, if any, with the session's output
func (s *watchSession) runExec() error {
	if len(s.exec) == 0 {
		return nil
	}
	start := time.Now()
	c := exec.CommandContext(s.ctx, s.exec[0], s.exec[1:]...)
	c.Stdout = s.stdout
	c.Stderr = s.cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return errors.Wrapf(err, "exec %s failed", s.exec[0])
	}
	logger.Debugw("Ran post-regeneration command",
		logger.FieldCommand, s.exec[0],
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return nil
}
