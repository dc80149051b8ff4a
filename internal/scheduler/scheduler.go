package scheduler

import (
	"context"
	"fmt"
	"time"

	"barslot/internal/ledger"
	"barslot/internal/logger"
	"barslot/internal/metrics"

	"github.com/go-co-op/gocron/v2"
)

const (
	DefaultProvisionInterval = 6 * time.Hour
	DefaultQueueInterval     = 30 * time.Second

	jobTimeout = 2 * time.Minute
)

type BarLister interface {
	ListActiveIDs(ctx context.Context) ([]int, error)
}

type Provisioner interface {
	ProvisionRange(ctx context.Context, in ledger.ProvisionInput) (int, error)
}

type QueueMeter interface {
	QueueLength(ctx context.Context) (int64, error)
}

type Config struct {
	ProvisionInterval time.Duration
	QueueInterval     time.Duration
}

// Scheduler keeps the next days of every active bar provisioned and samples
// the email queue length.
type Scheduler struct {
	sched       gocron.Scheduler
	bars        BarLister
	provisioner Provisioner
	queue       QueueMeter
}

// New registers the jobs without starting them. queue may be nil.
func New(bars BarLister, provisioner Provisioner, queue QueueMeter, cfg Config) (*Scheduler, error) {
	if cfg.ProvisionInterval <= 0 {
		cfg.ProvisionInterval = DefaultProvisionInterval
	}
	if cfg.QueueInterval <= 0 {
		cfg.QueueInterval = DefaultQueueInterval
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{
		sched:       sched,
		bars:        bars,
		provisioner: provisioner,
		queue:       queue,
	}

	_, err = sched.NewJob(
		gocron.DurationJob(cfg.ProvisionInterval),
		gocron.NewTask(s.runProvisioning),
		gocron.WithName("provision-availability"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("register provisioning job: %w", err)
	}

	if queue != nil {
		_, err = sched.NewJob(
			gocron.DurationJob(cfg.QueueInterval),
			gocron.NewTask(s.sampleQueue),
			gocron.WithName("email-queue-length"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, fmt.Errorf("register queue job: %w", err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	logger.Info("scheduler started", "jobs", len(s.sched.Jobs()))
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

// ProvisionAll fills the configured window for every active bar. A failing
// bar is logged and skipped.
func (s *Scheduler) ProvisionAll(ctx context.Context) (int, error) {
	ids, err := s.bars.ListActiveIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active bars: %w", err)
	}

	total := 0
	for _, id := range ids {
		created, err := s.provisioner.ProvisionRange(ctx, ledger.ProvisionInput{BarID: id})
		if err != nil {
			logger.Error("provisioning failed", "bar_id", id, "error", err)
			continue
		}
		total += created
	}
	return total, nil
}

func (s *Scheduler) runProvisioning() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	created, err := s.ProvisionAll(ctx)
	if err != nil {
		logger.Error("provisioning run failed", "error", err)
		return
	}
	logger.Info("provisioning run finished", "created", created)
}

func (s *Scheduler) sampleQueue() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	n, err := s.queue.QueueLength(ctx)
	if err != nil {
		logger.Warn("failed to read email queue length", "error", err)
		return
	}
	metrics.EmailQueueLength.Set(float64(n))
}
