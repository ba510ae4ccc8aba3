package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/repo"
	"github.com/radardiario/radar-bridge/internal/biz/usecase"
)

// ledgerRetention is how long processed message IDs are kept
const ledgerRetention = 30 * 24 * time.Hour

// digestSender is the part of the bot the runner needs
type digestSender interface {
	SendDigest(ctx context.Context, chatID string) error
}

// DigestRunner sends the daily digest at the configured hour
// and prunes the processed-message ledger
type DigestRunner struct {
	bot        digestSender
	schedule   *usecase.DailySchedule
	ledgerRepo repo.LedgerRepo // optional
	chatID     string

	pollInterval time.Duration
	now          func() time.Time
	lastRun      time.Time
	lastCleanup  time.Time
	inFlight     atomic.Bool

	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewDigestRunner creates a new digest runner
func NewDigestRunner(bot digestSender, schedule *usecase.DailySchedule, ledgerRepo repo.LedgerRepo, chatID string) *DigestRunner {
	return &DigestRunner{
		bot:          bot,
		schedule:     schedule,
		ledgerRepo:   ledgerRepo,
		chatID:       chatID,
		pollInterval: 60 * time.Second, // Check every 60 seconds
		now:          time.Now,
		stopCh:       make(chan struct{}),
	}
}

// Start starts the runner
func (r *DigestRunner) Start() {
	if r.running {
		return
	}
	r.running = true
	r.wg.Add(1)
	go r.loop()
	fmt.Printf("[DigestRunner] Started, next digest at %s\n",
		r.schedule.NextRun(r.now()).Format("02/01/2006 15:04 MST"))
}

// Stop stops the runner
func (r *DigestRunner) Stop() {
	if !r.running {
		return
	}
	r.running = false
	close(r.stopCh)
	r.wg.Wait()
	fmt.Println("[DigestRunner] Stopped")
}

func (r *DigestRunner) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Tick(context.Background())
		case <-r.stopCh:
			return
		}
	}
}

// Tick runs whatever is due at the current time.
// Returns true when a digest was sent.
func (r *DigestRunner) Tick(ctx context.Context) bool {
	now := r.now()
	r.cleanupLedger(ctx, now)

	if !r.schedule.Due(now, r.lastRun) {
		return false
	}
	if !r.inFlight.CompareAndSwap(false, true) {
		fmt.Println("[DigestRunner] Digest already running, skipping")
		return false
	}
	defer r.inFlight.Store(false)

	// A failed send still consumes the day's slot
	r.lastRun = now
	if err := r.bot.SendDigest(ctx, r.chatID); err != nil {
		fmt.Printf("[DigestRunner] Failed to send digest: %v\n", err)
		return false
	}
	fmt.Printf("[DigestRunner] Digest sent to %s\n", r.chatID)
	return true
}

func (r *DigestRunner) cleanupLedger(ctx context.Context, now time.Time) {
	if r.ledgerRepo == nil || now.Sub(r.lastCleanup) < 6*time.Hour {
		return
	}
	r.lastCleanup = now

	n, err := r.ledgerRepo.CleanupOld(ctx, now.Add(-ledgerRetention))
	if err != nil {
		fmt.Printf("[DigestRunner] Ledger cleanup failed: %v\n", err)
		return
	}
	if n > 0 {
		fmt.Printf("[DigestRunner] Removed %d old ledger entries\n", n)
	}
}
