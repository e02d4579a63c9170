package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/trackvia-go/internal/clock"
	"github.com/MKhiriev/trackvia-go/internal/logger"
	"github.com/MKhiriev/trackvia-go/models"
)

// DefaultRefreshMargin is how long before expiry the access token is renewed.
const DefaultRefreshMargin = 15 * time.Second

// RefreshDelay returns how long to wait before refreshing a token that lives
// expiresIn seconds: expiresIn minus margin, floored at zero. Lifetimes past
// models.MaxExpiresIn are capped there.
func RefreshDelay(expiresIn int64, margin time.Duration) time.Duration {
	d := models.TokenState{ExpiresIn: expiresIn}.Lifetime() - margin
	if d < 0 {
		return 0
	}
	return d
}

// RefreshJobConfig configures [NewRefreshJob].
type RefreshJobConfig struct {
	// Margin is subtracted from the token lifetime to get the timer delay.
	// Zero means DefaultRefreshMargin.
	Margin time.Duration

	// Clock drives the timer. Nil means clock.System.
	Clock clock.Clock

	// OnError receives every failed refresh. It runs on the job goroutine and
	// must not call Stop.
	OnError func(error)
}

type refreshJob struct {
	session Session
	clock   clock.Clock
	margin  time.Duration
	onError func(error)
	logger  *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefreshJob creates a refreshJob for session. The job is idle until
// Start or Run is called.
func NewRefreshJob(session Session, cfg RefreshJobConfig, log *logger.Logger) RefreshJob {
	if cfg.Margin <= 0 {
		cfg.Margin = DefaultRefreshMargin
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.System()
	}
	if log == nil {
		log = logger.Nop()
	}

	return &refreshJob{
		session: session,
		clock:   cfg.Clock,
		margin:  cfg.Margin,
		onError: cfg.OnError,
		logger:  log,
	}
}

// Start implements RefreshJob. It stops any previously running job, then
// launches a goroutine that sleeps RefreshDelay(state.ExpiresIn) and calls
// Session.Refresh once per timer firing. A successful refresh rearms the timer
// from the new ExpiresIn; a failed one is reported and rearms from the last
// known ExpiresIn. The goroutine exits when ctx is cancelled or Stop is called.
func (j *refreshJob) Start(ctx context.Context, state models.TokenState) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go j.loop(jobCtx, state.ExpiresIn)
}

// Run implements RefreshJob.
func (j *refreshJob) Run(ctx context.Context) {
	state, _ := j.session.Current()
	j.Start(ctx, state)
}

// Stop implements RefreshJob. It cancels the goroutine's context and blocks
// until it has exited, so no refresh happens after Stop returns. No-op when
// the job is not running.
func (j *refreshJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

func (j *refreshJob) loop(ctx context.Context, expiresIn int64) {
	defer j.wg.Done()

	for {
		delay := RefreshDelay(expiresIn, j.margin)
		j.logger.Debug().Dur("delay", delay).Msg("token refresh scheduled")

		timer := j.clock.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C():
		}

		state, err := j.session.Refresh(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			j.logger.Error().Err(err).Msg("token refresh failed, rescheduling")
			j.report(err)
			continue
		}

		expiresIn = state.ExpiresIn
	}
}

// report hands err to the OnError callback. A panicking callback is logged
// and does not stop the job.
func (j *refreshJob) report(err error) {
	if j.onError == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			j.logger.Error().Str("panic", fmt.Sprint(r)).Msg("refresh error handler panicked")
		}
	}()
	j.onError(err)
}
