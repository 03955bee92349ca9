package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"dispatch/bootstrap"
	"dispatch/config"
	"dispatch/daemon"
	"dispatch/doctor"
	"dispatch/hotkey"
	"dispatch/log"
	"dispatch/pool"
	"dispatch/shutdown"
)

var version = "dev"

func run() {
	if code := serve(); code != 0 {
		os.Exit(code)
	}
}

func serve() int {
	layout, err := bootstrap.Locate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := layout.Ensure(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	settings, warnings := config.SettingsFromEnv()

	// Re-exec in background, return shell prompt
	parent, err := bootstrap.Detach(layout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if parent {
		return 0
	}

	logPath, err := log.ResolveDir(settings.LogDir, layout.DaemonDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		return 1
	}
	log.SetDir(logPath)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()
	initCrashLog()

	pidFile, err := bootstrap.AcquirePidFile(layout.PidPath)
	if err != nil {
		log.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer pidFile.Release()

	for _, w := range warnings {
		log.Warn(w)
	}
	doctor.Run(doctor.Checks(layout.ConfigPath, log.Dir()))

	sig := shutdown.New()
	dispatch := pool.New(0)
	defer dispatch.Close()

	d := daemon.New(daemon.Options{
		ConfigPath:        layout.ConfigPath,
		ReloadInterval:    settings.ReloadInterval,
		HeartbeatInterval: settings.HeartbeatInterval,
		NewHook:           hotkey.New,
		Dispatcher:        dispatch,
		Signal:            sig,
		Watch:             settings.Watch,
	})
	if err := d.Start(); err != nil {
		log.Errorf("startup failed: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	log.Infof("daemon successfully started (version %s, config %s, reload every %s)",
		version, layout.ConfigPath, settings.ReloadInterval)

	if err := d.Run(); err != nil {
		log.Errorf("daemon: %v", err)
	}
	st := dispatch.Stats()
	log.Infof("daemon successfully stopped (%d scripts submitted, %d failed)", st.Submitted, st.Failed)
	return 0
}

// initCrashLog sends fatal runtime errors, including those from cgo, to
// crash.log beside the daemon log.
func initCrashLog() {
	crashPath := filepath.Join(log.Dir(), log.CrashName)
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}
