// ABOUTME: Shared state for all subcommands
// ABOUTME: Resolves config and context paths, sets up debug logging and signal cancellation

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"albumseq/config"
	"albumseq/store"
)

const (
	debugLogFile       = "albumseq-debug.log"
	defaultContextHint = store.DefaultContextPath
)

var debugLog *log.Logger

// commandContext carries the global flags and lazily loaded config
type commandContext struct {
	contextFlag string
	configFlag  string
	debug       bool
	cpuProfile  string
	memProfile  string

	configOnce sync.Once
	config     config.EngineConfig
	configErr  error

	stopProfile func()
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

// start runs before every subcommand
func (c *commandContext) start(cmd *cobra.Command) error {
	if c.debug {
		if err := SetupDebugLog(debugLogFile); err != nil {
			return err
		}
	}

	if c.cpuProfile != "" {
		stop, err := setupCPUProfile(c.cpuProfile)
		if err != nil {
			return err
		}

		c.stopProfile = stop
	}

	debugf("[CLI] %s %s", cmd.CommandPath(), strings.Join(os.Args[1:], " "))

	return nil
}

// stop runs after every successful subcommand
func (c *commandContext) stop() {
	if c.stopProfile != nil {
		c.stopProfile()
		c.stopProfile = nil
	}

	if c.memProfile != "" {
		writeMemoryProfile(c.memProfile)
	}
}

// ensureConfig loads the config once; --config wins over the default lookup
func (c *commandContext) ensureConfig() (config.EngineConfig, error) {
	c.configOnce.Do(func() {
		path := strings.TrimSpace(c.configFlag)
		if path == "" {
			path = config.GetConfigPath()
		}

		c.config, c.configErr = config.LoadConfig(path)
		if c.configErr == nil {
			debugf("[CLI] Config loaded from %s: %+v", path, c.config)
		}
	})

	return c.config, c.configErr
}

// contextPath resolves the context file: --context, then config, then the default
func (c *commandContext) contextPath() (string, error) {
	if path := strings.TrimSpace(c.contextFlag); path != "" {
		return path, nil
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}

	if cfg.ContextPath != "" {
		return cfg.ContextPath, nil
	}

	return store.DefaultContextPath, nil
}

// workers resolves 0 to one worker per CPU
func resolveWorkers(workers int) int {
	if workers <= 0 {
		return runtime.NumCPU()
	}

	return workers
}

// withSignalCancel returns a context cancelled on Ctrl+C or SIGTERM
func withSignalCancel(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-stop:
			debugf("[CLI] Interrupted, cancelling")
			cancel()
		case <-ctx.Done():
		}

		signal.Stop(stop)
	}()

	return ctx, cancel
}

// SetupDebugLog initializes debug logging and announces it on a terminal
func SetupDebugLog(filename string) error {
	if err := InitDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	if isTerminal(os.Stderr) {
		fmt.Fprintf(os.Stderr, "Debug logging enabled: %s\n", filename)
	}

	return nil
}

// InitDebugLog initializes debug logging
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// debugf logs to the debug file when enabled
func debugf(format string, args ...interface{}) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}
