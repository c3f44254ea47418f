package cmd

import (
	"fmt"

	"github.com/rogerwwx/mem-cleaner/internal/config"
	"github.com/rogerwwx/mem-cleaner/internal/monitor"
	"github.com/rogerwwx/mem-cleaner/internal/notification"
	"github.com/rogerwwx/mem-cleaner/internal/power"
	"github.com/rogerwwx/mem-cleaner/internal/process"
	"github.com/rogerwwx/mem-cleaner/internal/safety"
)

// agent bundles the collaborators shared by run, watch and scan.
type agent struct {
	cfg        *config.Config
	mode       safety.Mode
	store      *safety.Store
	gate       *power.CachedGate
	suppressor *monitor.Suppressor
	mon        *monitor.Monitor
}

func newAgent(cfg *config.Config, mode safety.Mode) *agent {
	source := monitor.NewProcSource(cfg.Monitoring.ProcRoot)
	classifier := monitor.NewClassifier(source, cfg.Policy())
	engine := monitor.NewEngine(source, classifier)

	var oracle power.Oracle = power.Never{}
	if cfg.Power.IdleCheck {
		oracle = power.NewDeviceIdle(cfg.Power.IdleCommand, cfg.Power.IdleValue, cfg.Power.IdleTimeout)
	}
	gate := power.NewCachedGate(oracle, cfg.Power.IdleCacheTTL)

	suppressor := monitor.NewSuppressor(source, gate, process.NewManager())
	suppressor.SetDryRun(mode == safety.ModeDryRun)

	store := safety.NewStore(cfg.Whitelist())
	mon := monitor.NewMonitor(engine, suppressor,
		func() monitor.Whitelist { return store.Load() },
		monitor.Options{
			UpdateInterval:   cfg.Monitoring.UpdateInterval,
			SuppressInterval: cfg.Monitoring.SuppressInterval,
			Threshold:        cfg.Monitoring.PressureThreshold,
		})

	return &agent{
		cfg:        cfg,
		mode:       mode,
		store:      store,
		gate:       gate,
		suppressor: suppressor,
		mon:        mon,
	}
}

func (a *agent) Close() {
	_ = a.gate.Close()
}

// reporter is the sink for kill lists.
type reporter struct {
	notifier *notification.Notifier
	auditor  *notification.Auditor
	cleanup  *notification.CleanupLog
	dryRun   bool
}

func (r *reporter) ReportKilled(killed []monitor.Record) {
	if len(killed) == 0 {
		return
	}
	r.notifier.Killed(killed, r.dryRun)
	for _, k := range killed {
		r.auditor.LogTermination(k, r.dryRun)
	}
	if r.dryRun {
		return
	}
	if err := r.cleanup.WriteCleanup(monitor.Names(killed)); err != nil {
		r.notifier.Warn(fmt.Sprintf("Writing cleanup log: %v", err))
	}
}

// writeStartup writes the cleanup log banner. A failure is logged and the
// daemon keeps running.
func writeStartup(cleanup *notification.CleanupLog, notifier *notification.Notifier) {
	if err := cleanup.WriteStartup(); err != nil {
		notifier.Warn(fmt.Sprintf("Writing cleanup log: %v", err))
	}
}

// watchWhitelist swaps in a new whitelist whenever the config file changes.
// Other settings need a restart.
func (a *agent) watchWhitelist(notifier *notification.Notifier, auditor *notification.Auditor, onReload func(ok bool)) {
	a.cfg.Watch(func(next *config.Config, err error) {
		if err != nil {
			notifier.Warn(fmt.Sprintf("Config reload failed, keeping previous whitelist: %v", err))
			onReload(false)
			return
		}
		wl := next.Whitelist()
		a.store.Swap(wl)
		notifier.Info(fmt.Sprintf("Whitelist reloaded from %s (%d rules)", next.File(), wl.Len()))
		auditor.LogEvent("config_reload", fmt.Sprintf("rules=%d", wl.Len()))
		onReload(true)
	})
}
