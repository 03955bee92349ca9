package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	FileName  = "daemon.log"
	CrashName = "crash.log"
)

var (
	diagLog  zerolog.Logger
	logFile  *closableFile
	logMu    sync.Mutex
	logReady atomic.Bool
	pid      int
	dir      string
)

// closableFile drops writes once closed, so goroutines still logging after
// Close never touch a closed descriptor.
type closableFile struct {
	mu sync.Mutex
	f  *os.File
}

func (c *closableFile) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.f == nil {
		return len(p), nil
	}
	return c.f.Write(p)
}

func (c *closableFile) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.f == nil {
		return nil
	}
	err := c.f.Close()
	c.f = nil
	return err
}

// ResolveDir picks the log directory: DISPATCH_LOG_PATH if set (relative
// paths resolve against the working directory), otherwise daemonDir.
func ResolveDir(envPath, daemonDir string) (string, error) {
	if envPath != "" {
		if !filepath.IsAbs(envPath) {
			wd, err := os.Getwd()
			if err != nil {
				return "", err
			}
			return filepath.Join(wd, envPath), nil
		}
		return envPath, nil
	}
	return daemonDir, nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	logFile = &closableFile{f: f}

	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	consoleWriter := zerolog.ConsoleWriter{
		Out:        logFile,
		TimeFormat: "2006-01-02 15:04:05 MST",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady.Store(true)
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	logReady.Store(false)
	if logFile != nil {
		logFile.Close()
	}
}

func Info(msg string) {
	if logReady.Load() {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady.Load() {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...any) {
	if logReady.Load() {
		diagLog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady.Load() {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady.Load() {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady.Load() {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady.Load() {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Binding(hotkey, script string) {
	if !logReady.Load() {
		return
	}
	diagLog.Debug().
		Str("hotkey", hotkey).
		Str("script", script).
		Msg("binding")
}

func Skipped(index int, key string, err error) {
	if !logReady.Load() {
		return
	}
	diagLog.Warn().
		Int("index", index).
		Str("hotkey", key).
		Err(err).
		Msg("binding_skipped")
}

func Reload(bindings, skipped int, took time.Duration) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Int("bindings", bindings).
		Int("skipped", skipped).
		Dur("took", took).
		Msg("registry_installed")
}

func Spawn(script string, procPid int) {
	if !logReady.Load() {
		return
	}
	diagLog.Info().
		Str("script", script).
		Int("child", procPid).
		Msg("running")
}

func SpawnFailed(script string, err error) {
	if !logReady.Load() {
		return
	}
	diagLog.Error().
		Str("script", script).
		Err(err).
		Msg("spawn_failed")
}

func Exited(script string, procPid int, err error) {
	if !logReady.Load() {
		return
	}
	ev := diagLog.Info()
	if err != nil {
		ev = diagLog.Warn().Err(err)
	}
	ev.Str("script", script).
		Int("child", procPid).
		Msg("exited")
}
