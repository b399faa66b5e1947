// Package fishingbot runs the fishing automaton: a single state machine
// that repeatedly casts through the farm service on a randomized delay,
// reacting to outcomes (catch, out of bait, out of stamina, upstream
// failure) according to its configured policies and broadcasting every
// transition to subscribers.
package fishingbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"farmbot-backend/lib/scrapers/farmrpg"
	"farmbot-backend/services/farm"

	"github.com/mazen160/go-random"
)

// FarmAPI is the slice of the farm service the bot drives.
type FarmAPI interface {
	CatchFish(ctx context.Context, locationID, baitAmount int) (farmrpg.FishCatchData, error)
	BuyItem(ctx context.Context, itemID, quantity int) (farm.BuyItemResult, error)
	GetBaitInfo(ctx context.Context, locationID int) (farmrpg.BaitInfo, error)
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
	StatusStopped Status = "stopped"
	StatusError   Status = "error"
)

var (
	ErrAlreadyRunning = errors.New("bot is already running")
	ErrNotRunning     = errors.New("bot is not running")
	ErrNotPaused      = errors.New("bot is not paused")
)

type Stats struct {
	TotalCatches     int        `json:"totalCatches"`
	Errors           int        `json:"errors"`
	SessionStartTime *time.Time `json:"sessionStartTime,omitempty"`
	LastCatchTime    *time.Time `json:"lastCatchTime,omitempty"`
}

type Resources struct {
	Stamina int `json:"stamina"`
	Bait    int `json:"bait"`
}

// State is a snapshot handed to transports. Mutation happens only inside
// the machine's own transition handlers.
type State struct {
	Status    Status     `json:"status"`
	Config    Config     `json:"config"`
	Stats     Stats      `json:"stats"`
	Resources *Resources `json:"currentResources,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

type ErrorEventData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StatsEventData struct {
	Stats     Stats      `json:"stats"`
	Resources *Resources `json:"currentResources,omitempty"`
}

type Service struct {
	farm FarmAPI
	// bounds background iterations, normally the process signal context
	ctx context.Context

	mu          sync.Mutex
	status      Status
	config      Config
	stats       Stats
	resources   *Resources
	lastError   string
	timer       *time.Timer
	subscribers []*subscriber
	nextSubID   int

	// inFlight is true while an iteration body is executing. Together with
	// the timer it guarantees at most one pending or running iteration.
	inFlight bool
	// gen counts sessions. An iteration started under an older generation
	// must not touch the state of a newer one.
	gen int

	// replaced in tests for deterministic scheduling
	schedule func(d time.Duration, fn func()) *time.Timer
	jitter   func(min, max int) int
}

func NewService(ctx context.Context, farmAPI FarmAPI) *Service {
	return &Service{
		farm:     farmAPI,
		ctx:      ctx,
		status:   StatusIdle,
		config:   DefaultConfig(),
		schedule: time.AfterFunc,
		jitter:   randomDelay,
	}
}

func randomDelay(min, max int) int {
	if max <= min {
		return min
	}
	n, err := random.IntRange(min, max+1)
	if err != nil {
		return min
	}
	return n
}

// State returns a shallow snapshot.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() State {
	state := State{
		Status:    s.status,
		Config:    s.config,
		Stats:     s.stats,
		LastError: s.lastError,
	}
	if s.resources != nil {
		r := *s.resources
		state.Resources = &r
	}
	return state
}

// Start transitions idle/paused/stopped/error to running, resets session
// stats and launches the first iteration immediately.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.status == StatusRunning {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	now := time.Now().UTC()
	s.stats = Stats{SessionStartTime: &now}
	s.lastError = ""
	s.status = StatusRunning
	s.gen++
	gen := s.gen
	s.inFlight = true
	locationID, baitID := s.config.LocationID, s.config.BaitID
	s.emitLocked(EventStatus, s.snapshotLocked())
	s.mu.Unlock()

	slog.InfoContext(s.ctx, "fishing bot started",
		"location_id", locationID, "bait_id", baitID)
	go s.run(gen)
	return nil
}

// Stop cancels any pending iteration and halts the machine. Stopping an
// already-stopped bot is a no-op.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.status == StatusStopped {
		return
	}
	s.status = StatusStopped
	s.emitLocked(EventStatus, s.snapshotLocked())
	slog.InfoContext(s.ctx, "fishing bot stopped",
		"total_catches", s.stats.TotalCatches, "errors", s.stats.Errors)
}

func (s *Service) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusRunning {
		return ErrNotRunning
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.status = StatusPaused
	s.emitLocked(EventStatus, s.snapshotLocked())
	return nil
}

// Resume restarts the loop. If an iteration from before the pause is still
// in flight it is left to finish and reschedule itself, so two catch
// attempts are never in flight at once.
func (s *Service) Resume() error {
	s.mu.Lock()
	if s.status != StatusPaused {
		s.mu.Unlock()
		return ErrNotPaused
	}
	s.status = StatusRunning
	s.emitLocked(EventStatus, s.snapshotLocked())

	launch := !s.inFlight
	if launch {
		s.inFlight = true
	}
	gen := s.gen
	s.mu.Unlock()

	if launch {
		go s.run(gen)
	}
	return nil
}

// SetConfig replaces the whole configuration, typically once at startup
// with values merged from the config file.
func (s *Service) SetConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// UpdateConfig merges a partial config in any state and emits a status
// event so subscribers see the new settings.
func (s *Service) UpdateConfig(patch ConfigPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	patch.applyTo(&s.config)
	s.emitLocked(EventStatus, s.snapshotLocked())
}

// run executes one iteration, converting a panic into the error terminal
// state instead of taking the process down.
func (s *Service) run(gen int) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(s.ctx, "bot iteration panicked", "panic", r)
			s.mu.Lock()
			defer s.mu.Unlock()
			if gen != s.gen {
				return
			}
			s.inFlight = false
			s.status = StatusError
			s.lastError = fmt.Sprint(r)
			s.stats.Errors++
			s.emitLocked(EventError, ErrorEventData{
				Code:    string(farm.CodeInternal),
				Message: s.lastError,
			})
			s.emitLocked(EventStatus, s.snapshotLocked())
		}
	}()
	s.iterate(gen)
}

func (s *Service) iterate(gen int) {
	cfg, ok := s.enterIteration(gen)
	if !ok {
		return
	}

	// top up before spending a cast, if the bait level says we are low
	if cfg.AutoBuyBait.Enabled {
		bait, known := s.knownBait(gen)
		if !known {
			// no catch has reported resources yet, ask the bait page
			if info, err := s.farm.GetBaitInfo(s.ctx, cfg.LocationID); err == nil {
				bait, known = info.BaitCount, true
			}
		}
		if known && bait < cfg.AutoBuyBait.MinBaitCount {
			s.buyBait(cfg, gen)
		}
	}

	data, err := s.farm.CatchFish(s.ctx, cfg.LocationID, cfg.BaitID)
	if err != nil {
		s.handleCatchError(cfg, gen, err)
		return
	}
	s.handleCatch(cfg, gen, data)
}

// enterIteration handles the race where stop or pause fired between the
// timer being scheduled and the iteration starting.
func (s *Service) enterIteration(gen int) (Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return Config{}, false
	}
	if s.status != StatusRunning {
		s.inFlight = false
		return Config{}, false
	}
	return s.config, true
}

func (s *Service) knownBait(gen int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.resources == nil {
		return 0, false
	}
	return s.resources.Bait, true
}

// buyBait attempts one bait purchase and reports whether it succeeded.
func (s *Service) buyBait(cfg Config, gen int) bool {
	result, err := s.farm.BuyItem(s.ctx, cfg.AutoBuyBait.BaitItemID, cfg.AutoBuyBait.BuyQuantity)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}

	if err != nil {
		slog.WarnContext(s.ctx, "bait purchase failed",
			"item_id", cfg.AutoBuyBait.BaitItemID, "err", err)
		s.stats.Errors++
		s.lastError = err.Error()
		s.emitLocked(EventError, ErrorEventData{
			Code:    string(farm.CodeOf(err)),
			Message: err.Error(),
		})
		return false
	}

	if s.resources != nil {
		s.resources.Bait += result.QuantityPurchased
	}
	s.emitLocked(EventBaitPurchase, result)
	return true
}

func (s *Service) handleCatchError(cfg Config, gen int, err error) {
	slog.DebugContext(s.ctx, "catch attempt failed", "err", err)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.stats.Errors++
	s.lastError = err.Error()
	s.emitLocked(EventError, ErrorEventData{
		Code:    string(farm.CodeOf(err)),
		Message: err.Error(),
	})
	s.mu.Unlock()

	if farm.IsCode(err, farm.CodeNoBait) {
		if cfg.AutoBuyBait.Enabled {
			if !s.buyBait(cfg, gen) {
				s.halt(gen, "Out of bait")
				return
			}
		} else if cfg.AutoStop.Enabled && cfg.AutoStop.NoBait {
			s.halt(gen, "Out of bait")
			return
		}
	}
	if cfg.AutoStop.Enabled && cfg.AutoStop.NoStamina &&
		strings.Contains(strings.ToLower(err.Error()), "stamina") {
		s.halt(gen, "Out of stamina")
		return
	}

	s.scheduleNext(cfg, gen)
}

func (s *Service) handleCatch(cfg Config, gen int, data farmrpg.FishCatchData) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	now := time.Now().UTC()
	s.stats.TotalCatches++
	s.stats.LastCatchTime = &now
	s.resources = &Resources{
		Stamina: data.Resources.Stamina,
		Bait:    data.Resources.Bait,
	}
	s.emitLocked(EventCatch, data)
	catches := s.stats.TotalCatches
	s.mu.Unlock()

	// policy stops on the success path are clean: lastError stays unset
	auto := cfg.AutoStop
	if auto.Enabled && auto.MaxCatches > 0 && catches >= auto.MaxCatches {
		s.halt(gen, "")
		return
	}
	if data.Resources.Bait <= 0 {
		if cfg.AutoBuyBait.Enabled {
			if !s.buyBait(cfg, gen) {
				s.halt(gen, "Out of bait")
				return
			}
		} else if auto.Enabled && auto.NoBait {
			s.halt(gen, "")
			return
		}
	}
	if data.Resources.Stamina <= 0 && auto.Enabled && auto.NoStamina {
		s.halt(gen, "")
		return
	}

	s.mu.Lock()
	if gen == s.gen && s.status == StatusRunning {
		s.emitLocked(EventStats, StatsEventData{
			Stats:     s.stats,
			Resources: s.resources,
		})
	}
	s.mu.Unlock()

	s.scheduleNext(cfg, gen)
}

// halt ends the session from inside an iteration. A non-empty reason marks
// a failure stop and is recorded as the state's lastError.
func (s *Service) halt(gen int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	s.inFlight = false
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if reason != "" {
		s.lastError = reason
	}
	s.status = StatusStopped
	s.emitLocked(EventStatus, s.snapshotLocked())
	slog.InfoContext(s.ctx, "fishing bot auto-stopped",
		"reason", reason, "total_catches", s.stats.TotalCatches)
}

func (s *Service) scheduleNext(cfg Config, gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}
	s.inFlight = false
	if s.status != StatusRunning {
		return
	}

	delay := time.Duration(s.jitter(cfg.Delay.Min, cfg.Delay.Max)) * time.Millisecond
	s.timer = s.schedule(delay, func() { s.fireScheduled(gen) })
}

func (s *Service) fireScheduled(gen int) {
	s.mu.Lock()
	if gen != s.gen || s.status != StatusRunning || s.inFlight {
		s.mu.Unlock()
		return
	}
	s.inFlight = true
	s.timer = nil
	s.mu.Unlock()
	s.run(gen)
}
