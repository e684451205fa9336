// Package keepalive implements an in-process accounting engine for
// network-level keepalive offloads. It observes Start/Pause/Resume/Stop
// lifecycle events for keepalives identified by (network, slot) and, on
// request, emits duration-by-concurrency histograms and per-carrier
// lifetime totals suitable for daily telemetry upload.
//
// All mutating and reporting methods must be called from the single
// goroutine that constructed the Tracker; any other caller gets
// ErrWrongDispatcher.
package keepalive

import (
	"context"
	"os"

	"cdr.dev/slog"
	"cdr.dev/slog/sloggers/sloghuman"
	"github.com/coder/quartz"
)

// noCtx is used for logging calls. The event hooks this package exposes
// don't thread a context through (they mirror a synchronous handler
// callback, not a request), so there is nothing more meaningful to pass.
var noCtx = context.Background()

// Tracker is the keepalive statistics tracker (components B-F wired
// together behind the four event hooks and two report hooks).
type Tracker struct {
	dispatcher dispatcherToken
	clock      quartz.Clock
	log        slog.Logger

	registry *registry
	hist     *histogram
	carriers *carrierTable

	lastResetMs int64
}

// Option configures a Tracker at construction time.
type Option func(*Tracker)

// WithClock overrides the clock source. Defaults to quartz.NewReal(). Tests
// should pass quartz.NewMock(t).
func WithClock(clock quartz.Clock) Option {
	return func(t *Tracker) {
		t.clock = clock
	}
}

// WithLogger overrides the logger. Defaults to a human-readable logger
// writing to stderr, matching coderd/workspaceusage.New's default.
func WithLogger(log slog.Logger) Option {
	return func(t *Tracker) {
		t.log = log
	}
}

// NewTracker constructs a Tracker bound to the calling goroutine: every
// subsequent call to a Tracker method must come from this same goroutine.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		dispatcher: currentDispatcherToken(),
		clock:      quartz.NewReal(),
		log:        slog.Make(sloghuman.Sink(os.Stderr)),
	}
	for _, opt := range opts {
		opt(t)
	}
	now := t.clock.Now().UnixMilli()
	t.registry = newRegistry()
	t.hist = newHistogram(now)
	t.carriers = newCarrierTable()
	t.lastResetMs = now
	return t
}

// OnStartKeepalive registers a new keepalive. It fails with ErrSlotInUse if
// (network, slot) already names a live registration.
func (t *Tracker) OnStartKeepalive(network Network, slot int, caps NetworkCapabilities, intervalSeconds int) error {
	if !t.assertOnDispatcher() {
		return ErrWrongDispatcher
	}
	key := slotKey{network: network, slot: slot}
	now := t.clock.Now().UnixMilli()

	reg := &registration{
		carrierID:        caps.carrierID(),
		transportBitmask: caps.transportBitmask(),
		intervalMs:       int64(intervalSeconds) * 1000,
		startedAtMs:      now,
		lastTransitionMs: now,
		paused:           false,
	}

	// Accrue first, using the pre-event cursor values, then mutate cursors.
	t.hist.accrue(now, t.registry.len(), t.registry.countActive())

	if err := t.registry.insert(key, reg); err != nil {
		t.log.Warn(noCtx, "rejected start: slot already in use",
			slog.F("network", network), slog.F("slot", slot))
		return err
	}

	t.log.Debug(noCtx, "keepalive started",
		slog.F("network", network), slog.F("slot", slot), slog.F("now_ms", now))
	return nil
}

// OnPauseKeepalive pauses a live, running registration. It fails with
// ErrUnknownRegistration if there is no live record, or ErrIllegalTransition
// if it is already paused.
func (t *Tracker) OnPauseKeepalive(network Network, slot int) error {
	if !t.assertOnDispatcher() {
		return ErrWrongDispatcher
	}
	key := slotKey{network: network, slot: slot}
	now := t.clock.Now().UnixMilli()

	t.hist.accrue(now, t.registry.len(), t.registry.countActive())

	reg, err := t.registry.lookup(key)
	if err != nil {
		t.log.Warn(noCtx, "rejected pause: no live registration",
			slog.F("network", network), slog.F("slot", slot))
		return err
	}
	if reg.paused {
		t.log.Warn(noCtx, "rejected pause: already paused",
			slog.F("network", network), slog.F("slot", slot))
		return ErrIllegalTransition
	}

	tailMs := now - reg.lastTransitionMs
	key2 := reg.carrierKey()
	t.carriers.addRegistered(key2, tailMs)
	t.carriers.addActive(key2, tailMs)

	reg.paused = true
	reg.lastTransitionMs = now

	t.log.Debug(noCtx, "keepalive paused",
		slog.F("network", network), slog.F("slot", slot), slog.F("now_ms", now))
	return nil
}

// OnResumeKeepalive resumes a paused registration. It fails with
// ErrUnknownRegistration if there is no live record, or ErrIllegalTransition
// if it is not currently paused.
func (t *Tracker) OnResumeKeepalive(network Network, slot int) error {
	if !t.assertOnDispatcher() {
		return ErrWrongDispatcher
	}
	key := slotKey{network: network, slot: slot}
	now := t.clock.Now().UnixMilli()

	t.hist.accrue(now, t.registry.len(), t.registry.countActive())

	reg, err := t.registry.lookup(key)
	if err != nil {
		t.log.Warn(noCtx, "rejected resume: no live registration",
			slog.F("network", network), slog.F("slot", slot))
		return err
	}
	if !reg.paused {
		t.log.Warn(noCtx, "rejected resume: not paused",
			slog.F("network", network), slog.F("slot", slot))
		return ErrIllegalTransition
	}

	tailMs := now - reg.lastTransitionMs
	t.carriers.addRegistered(reg.carrierKey(), tailMs)

	reg.paused = false
	reg.lastTransitionMs = now

	t.log.Debug(noCtx, "keepalive resumed",
		slog.F("network", network), slog.F("slot", slot), slog.F("now_ms", now))
	return nil
}

// OnStopKeepalive destroys a live registration, folding its trailing tail
// into the carrier table. It fails with ErrUnknownRegistration if there is
// no live record.
func (t *Tracker) OnStopKeepalive(network Network, slot int) error {
	if !t.assertOnDispatcher() {
		return ErrWrongDispatcher
	}
	key := slotKey{network: network, slot: slot}
	now := t.clock.Now().UnixMilli()

	t.hist.accrue(now, t.registry.len(), t.registry.countActive())

	reg, err := t.registry.lookup(key)
	if err != nil {
		t.log.Warn(noCtx, "rejected stop: no live registration",
			slog.F("network", network), slog.F("slot", slot))
		return err
	}

	tailMs := now - reg.lastTransitionMs
	carrKey := reg.carrierKey()
	t.carriers.addRegistered(carrKey, tailMs)
	if !reg.paused {
		t.carriers.addActive(carrKey, tailMs)
	}

	if _, err := t.registry.remove(key); err != nil {
		return err
	}

	t.log.Debug(noCtx, "keepalive stopped",
		slog.F("network", network), slog.F("slot", slot), slog.F("now_ms", now))
	return nil
}

// BuildKeepaliveMetrics snapshots current state into a DailyReport without
// resetting anything.
func (t *Tracker) BuildKeepaliveMetrics() (DailyReport, error) {
	if !t.assertOnDispatcher() {
		return DailyReport{}, ErrWrongDispatcher
	}
	return t.build(), nil
}

// BuildAndResetMetrics snapshots current state, then zeroes the histogram
// and carrier table while preserving all live registrations. After the
// reset the histogram only spans the counts live at the reset instant, and
// every live registration's open tail starts at the reset instant.
func (t *Tracker) BuildAndResetMetrics() (DailyReport, error) {
	if !t.assertOnDispatcher() {
		return DailyReport{}, ErrWrongDispatcher
	}
	report := t.build()
	now := t.clock.Now().UnixMilli()
	t.hist.reset(now)
	t.hist.regDur = t.hist.regDur[:t.registry.len()+1]
	t.hist.actDur = t.hist.actDur[:t.registry.countActive()+1]
	t.carriers.reset()
	for _, reg := range t.registry.live {
		reg.lastTransitionMs = now
	}
	t.lastResetMs = now
	return report, nil
}

// LastResetMs returns the clock reading at the last reset (or construction,
// if BuildAndResetMetrics has never been called). Sum_k(reg_dur[k]) and
// Sum_k(act_dur[k]) are both invariant equal to now - LastResetMs().
func (t *Tracker) LastResetMs() int64 {
	return t.lastResetMs
}

// build is the shared snapshot logic for BuildKeepaliveMetrics and
// BuildAndResetMetrics. It closes the aggregate histogram at now, then folds
// each live registration's open tail into a transient copy of the carrier
// table. The registrations and the real carrier table are left untouched,
// so two consecutive builds at the same now are identical.
func (t *Tracker) build() DailyReport {
	now := t.clock.Now().UnixMilli()
	t.hist.accrue(now, t.registry.len(), t.registry.countActive())

	carriersCopy := t.carriers.clone()
	for _, reg := range t.registry.live {
		tailMs := now - reg.lastTransitionMs
		key := reg.carrierKey()
		carriersCopy.addRegistered(key, tailMs)
		if !reg.paused {
			carriersCopy.addActive(key, tailMs)
		}
	}

	regDur, actDur := t.hist.snapshot()
	durations := make([]DurationForNumOfKeepalive, len(regDur))
	for k := range regDur {
		durations[k] = DurationForNumOfKeepalive{
			NumOfKeepalive:                   k,
			KeepaliveRegisteredDurationsMsec: regDur[k],
			KeepaliveActiveDurationsMsec:     actDur[k],
		}
	}

	rows := carriersCopy.snapshot()
	carrierRows := make([]KeepaliveLifetimeForCarrier, len(rows))
	for i, row := range rows {
		carrierRows[i] = KeepaliveLifetimeForCarrier{
			CarrierID:          row.key.carrierID,
			TransportTypes:     row.key.transportBitmask,
			IntervalsMsec:      row.key.intervalMs,
			LifetimeMsec:       row.totals.registeredMs,
			ActiveLifetimeMsec: row.totals.activeMs,
		}
	}

	return DailyReport{
		DurationPerNumOfKeepalive:   durations,
		KeepaliveLifetimePerCarrier: carrierRows,
	}
}
