package bot

import (
	"context"
	"errors"
	"fadebot/model"
	"fadebot/notification"
	"fadebot/reference"
	"fadebot/service"
	"fadebot/source"
	"fadebot/storage"
	"fadebot/utils"
	"fmt"
	"github.com/jpillora/backoff"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"sync"
	"time"
)

var ErrPhaseTimeout = errors.New("phase timed out")

// CycleResult is what one scheduler cycle did.
type CycleResult struct {
	StartedAt     time.Time
	Duration      time.Duration
	Discovered    int
	Collected     int
	CollectFailed int
	Updated       int
	UpdateFailed  int
	Opportunities int
	Expired       int64
	PhaseErrors   map[string]string
}

// Failed reports whether every phase of the cycle failed.
func (r CycleResult) Failed() bool {
	return len(r.PhaseErrors) >= len(phaseNames)
}

type Status struct {
	Running           bool          `json:"running"`
	Cycles            int           `json:"cycles"`
	FailedCycles      int           `json:"failedCycles"`
	LastCycleAt       *time.Time    `json:"lastCycleAt"`
	LastCycleDuration time.Duration `json:"lastCycleDuration"`
	LastResult        *CycleResult  `json:"lastResult,omitempty"`
}

var phaseNames = []string{"discover", "update", "analyze"}

type Bot struct {
	settings  Settings
	storage   storage.Storage
	source    source.MarketSource
	notifiers []reference.Notifier
	notifier  reference.Notifier
	telegram  reference.Telegram

	prices           *service.MidPriceCache
	serviceCollector *service.ServiceCollector
	serviceGenerator *service.ServiceGenerator
	serviceLifecycle *service.ServiceLifecycle
	serviceQuery     *service.ServiceQuery
	serviceDiscovery *service.ServiceDiscovery

	clock service.Clock

	mu     sync.Mutex
	status Status
}

type Option func(*Bot)

func NewBot(settings Settings, st storage.Storage, src source.MarketSource, options ...Option) (*Bot, error) {
	settings.applyDefaults()
	bot := &Bot{
		settings: settings,
		storage:  st,
		source:   src,
	}
	for _, option := range options {
		option(bot)
	}

	var err error
	bot.prices, err = service.NewMidPriceCache(src, settings.MidPriceTTL)
	if err != nil {
		return nil, err
	}
	bot.serviceQuery = service.NewServiceQuery(st, settings.ExplorerURL, bot.clock)
	bot.serviceLifecycle = service.NewServiceLifecycle(st, bot.clock)
	bot.serviceCollector = service.NewServiceCollector(st, src,
		service.WithWorkers(settings.Workers),
		service.WithFillsLimit(settings.FillsLimit),
		service.WithCollectorClock(bot.clock),
	)
	if settings.Discovery {
		bot.serviceDiscovery = service.NewServiceDiscovery(src,
			settings.DiscoveryMinAccountValue, settings.DiscoveryMaxMonthRoi, settings.DiscoveryLimit)
	}

	if settings.Telegram.Enabled {
		bot.telegram, err = notification.NewTelegram(bot.serviceQuery, settings.Telegram.TelegramSettings)
		if err != nil {
			return nil, err
		}
		bot.notifiers = append(bot.notifiers, bot.telegram)
	}
	if len(bot.notifiers) > 0 {
		bot.notifier = notification.NewMulti(bot.notifiers...)
	}

	generatorOptions := []service.GeneratorOption{
		service.WithScoreLookback(settings.ScoreLookback),
		service.WithRecentWindow(settings.RecentWindow),
		service.WithGeneratorNotifier(bot.notifier),
	}
	if settings.Threshold > 0 {
		generatorOptions = append(generatorOptions, service.WithThreshold(settings.Threshold))
	}
	if bot.clock != nil {
		generatorOptions = append(generatorOptions, service.WithGeneratorClock(bot.clock))
	}
	bot.serviceGenerator = service.NewServiceGenerator(st, service.NewServiceScorer(st, bot.clock), bot.prices, generatorOptions...)
	return bot, nil
}

// WithNotifier registers a notifier for new opportunities and cycle errors.
func WithNotifier(notifier reference.Notifier) Option {
	return func(bot *Bot) {
		bot.notifiers = append(bot.notifiers, notifier)
	}
}

func WithClock(clock service.Clock) Option {
	return func(bot *Bot) {
		bot.clock = clock
	}
}

func (n *Bot) CollectorService() *service.ServiceCollector {
	return n.serviceCollector
}

func (n *Bot) GeneratorService() *service.ServiceGenerator {
	return n.serviceGenerator
}

func (n *Bot) LifecycleService() *service.ServiceLifecycle {
	return n.serviceLifecycle
}

func (n *Bot) QueryService() *service.ServiceQuery {
	return n.serviceQuery
}

func (n *Bot) DiscoveryService() *service.ServiceDiscovery {
	return n.serviceDiscovery
}

// Close releases the price cache. Services must not be used afterwards.
func (n *Bot) Close() error {
	return n.prices.Close()
}

func (n *Bot) Status() Status {
	n.mu.Lock()
	defer n.mu.Unlock()
	status := n.status
	if status.LastResult != nil {
		result := *status.LastResult
		status.LastResult = &result
	}
	return status
}

// Run executes a cycle every interval until ctx is cancelled. A failed cycle
// waits for a growing backoff before the next one.
func (n *Bot) Run(ctx context.Context) {
	n.setRunning(true)
	defer n.setRunning(false)

	if n.telegram != nil {
		n.telegram.Start()
		defer n.telegram.Stop()
	}

	ba := &backoff.Backoff{
		Min:    n.settings.BackoffMin,
		Max:    n.settings.BackoffMax,
		Factor: 2,
		Jitter: true,
	}
	utils.Log.Infof("[Bot] scheduler started, interval %s", n.settings.Interval)
	for {
		if ctx.Err() != nil {
			utils.Log.Info("[Bot] scheduler stopped")
			return
		}

		result := n.RunCycle(ctx)
		wait := n.settings.Interval - result.Duration
		if result.Failed() {
			wait = ba.Duration()
			utils.Log.Warnf("[Bot] cycle failed, retry in %s", wait)
		} else {
			ba.Reset()
		}
		if wait < 0 {
			wait = 0
		}

		select {
		case <-ctx.Done():
			utils.Log.Info("[Bot] scheduler stopped")
			return
		case <-time.After(wait):
		}
	}
}

// RunCycle runs the discover, update and analyze phases in parallel, then
// expires stale opportunities.
func (n *Bot) RunCycle(ctx context.Context) (result CycleResult) {
	result.StartedAt = n.now()
	result.PhaseErrors = map[string]string{}
	defer func() {
		if r := recover(); r != nil {
			utils.Log.Errorf("[Bot] cycle panic: %v", r)
			for _, name := range phaseNames {
				result.PhaseErrors[name] = fmt.Sprint(r)
			}
		}
		result.Duration = n.now().Sub(result.StartedAt)
		n.record(result)
	}()

	var mu sync.Mutex
	phases := map[string]phaseFunc{
		"discover": func(ctx context.Context) (func(*CycleResult), error) {
			discovered, collected, failed, err := n.discoverAndCollect(ctx)
			return func(r *CycleResult) {
				r.Discovered, r.Collected, r.CollectFailed = discovered, collected, failed
			}, err
		},
		"update": func(ctx context.Context) (func(*CycleResult), error) {
			updated, failed, err := n.updateExisting(ctx)
			return func(r *CycleResult) {
				r.Updated, r.UpdateFailed = updated, failed
			}, err
		},
		"analyze": func(ctx context.Context) (func(*CycleResult), error) {
			created, err := n.serviceGenerator.TriggerAnalysis(ctx)
			return func(r *CycleResult) {
				r.Opportunities = len(created)
			}, err
		},
	}

	group := errgroup.Group{}
	for _, name := range phaseNames {
		name, phase := name, phases[name]
		group.Go(func() error {
			apply, err := n.runPhase(ctx, name, phase)
			mu.Lock()
			defer mu.Unlock()
			if apply != nil {
				apply(&result)
			}
			if err != nil {
				utils.Log.Errorf("[Bot] phase %s: %v", name, err)
				result.PhaseErrors[name] = err.Error()
			}
			return nil
		})
	}
	_ = group.Wait()

	expired, err := n.serviceLifecycle.ExpireOlderThan(ctx, n.settings.Retention)
	if err != nil {
		utils.Log.Errorf("[Bot] expire: %v", err)
	}
	mu.Lock()
	result.Expired = expired
	mu.Unlock()

	if len(result.PhaseErrors) > 0 && n.notifier != nil {
		n.notifier.OnError(fmt.Errorf("cycle errors: %v", result.PhaseErrors))
	}
	return result
}

// phaseFunc runs one phase and returns how to fold its counts into the
// cycle result.
type phaseFunc func(ctx context.Context) (func(*CycleResult), error)

type phaseOutcome struct {
	apply func(*CycleResult)
	err   error
}

// runPhase bounds fn by the phase timeout. A phase still running at the
// deadline is abandoned with a cancelled context and its counts are dropped.
func (n *Bot) runPhase(ctx context.Context, name string, fn phaseFunc) (func(*CycleResult), error) {
	ctx, cancel := context.WithTimeout(ctx, n.settings.PhaseTimeout)
	defer cancel()

	done := make(chan phaseOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- phaseOutcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		apply, err := fn(ctx)
		done <- phaseOutcome{apply: apply, err: err}
	}()

	select {
	case outcome := <-done:
		return outcome.apply, outcome.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", name, ErrPhaseTimeout)
		}
		return nil, ctx.Err()
	}
}

func (n *Bot) discoverAndCollect(ctx context.Context) (discovered, collected, failed int, err error) {
	if n.serviceDiscovery == nil {
		return 0, 0, 0, nil
	}
	entries, err := n.serviceDiscovery.Discover(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	addresses := lo.Map(entries, func(entry model.LeaderboardEntry, _ int) string { return entry.Address })
	results := n.serviceCollector.TriggerCollection(ctx, addresses)
	collected, failed = countResults(results)
	if err := n.serviceCollector.SetDisplayNames(ctx, entries); err != nil {
		utils.Log.Warnf("[Bot] display names: %v", err)
	}
	return len(entries), collected, failed, nil
}

func (n *Bot) updateExisting(ctx context.Context) (updated, failed int, err error) {
	traders, err := n.storage.Traders(ctx, storage.TraderFilterParams{
		ActiveOnly: true,
		StaleFirst: true,
		Limit:      n.settings.UpdateLimit,
	})
	if err != nil {
		return 0, 0, err
	}
	addresses := lo.Map(traders, func(trader *model.Trader, _ int) string { return trader.Address })
	updated, failed = countResults(n.serviceCollector.TriggerCollection(ctx, addresses))
	return updated, failed, nil
}

func countResults(results map[string]bool) (ok, failed int) {
	for _, success := range results {
		if success {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}

func (n *Bot) now() time.Time {
	if n.clock != nil {
		return n.clock()
	}
	return time.Now().UTC()
}

func (n *Bot) setRunning(running bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status.Running = running
}

func (n *Bot) record(result CycleResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status.Cycles++
	if result.Failed() {
		n.status.FailedCycles++
	}
	startedAt := result.StartedAt
	n.status.LastCycleAt = &startedAt
	n.status.LastCycleDuration = result.Duration
	n.status.LastResult = &result

	utils.Log.Infof("[Bot] cycle %d: discovered=%d collected=%d updated=%d opportunities=%d expired=%d in %s",
		n.status.Cycles, result.Discovered, result.Collected, result.Updated, result.Opportunities, result.Expired, result.Duration)
}
