// Package doctor runs the startup self-checks and reports them to the daemon
// log.
package doctor

import (
	"fmt"
	"os"
	"path/filepath"

	"dispatch/config"
	"dispatch/hotkey"
	"dispatch/log"
)

type Check struct {
	Name string
	Run  func() (string, error)
}

type Result struct {
	Name   string
	OK     bool
	Detail string
}

// Checks returns the standard startup checks for the given paths.
func Checks(configPath, logDir string) []Check {
	return []Check{
		{Name: "hotkey", Run: hotkey.Diagnose},
		{Name: "config", Run: func() (string, error) { return checkConfig(configPath) }},
		{Name: "shell", Run: checkShell},
		{Name: "log dir", Run: func() (string, error) { return checkWritable(logDir) }},
	}
}

// Run executes every check in order and logs each result. It reports whether
// all of them passed. A failed check never stops the daemon.
func Run(checks []Check) ([]Result, bool) {
	allPass := true
	results := make([]Result, 0, len(checks))
	for i, c := range checks {
		detail, err := c.Run()
		r := Result{Name: c.Name, OK: err == nil, Detail: detail}
		if err != nil {
			r.Detail = err.Error()
			allPass = false
			log.Warnf("[%d/%d] %s: FAIL: %s", i+1, len(checks), c.Name, r.Detail)
		} else {
			log.Infof("[%d/%d] %s: PASS: %s", i+1, len(checks), c.Name, r.Detail)
		}
		results = append(results, r)
	}
	return results, allPass
}

func checkConfig(path string) (string, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return "", err
	}
	invalid := 0
	for _, c := range cfg.Commands {
		if _, err := c.AsHotkey(); err != nil {
			invalid++
		}
	}
	detail := fmt.Sprintf("%d command(s)", len(cfg.Commands))
	if invalid > 0 {
		detail += fmt.Sprintf(", %d with unknown keys", invalid)
	}
	if len(cfg.Undecoded) > 0 {
		detail += fmt.Sprintf(", %d unknown field(s)", len(cfg.Undecoded))
	}
	return detail, nil
}

func checkWritable(dir string) (string, error) {
	f, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return "", fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return filepath.Clean(dir), nil
}
