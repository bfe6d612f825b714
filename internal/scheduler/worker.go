package scheduler

import (
	"context"
	"fmt"
	"time"

	"rentora_backend/internal/email"
	"rentora_backend/internal/leases/domain"
	"rentora_backend/internal/leases/repository"
	"rentora_backend/platform/apperr"
	"rentora_backend/platform/config"
	"rentora_backend/platform/logger"
	"rentora_backend/platform/phone"
	"rentora_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/time/rate"
)

const endDateFormat = "02/01/2006"

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	repo     *repository.Repository
	mailer   email.Sender
	validate *validator.Validator
	limiter  *rate.Limiter
	log      *logger.Logger
	now      func() time.Time
}

func NewWorker(cfg config.SchedulerConfig, emailCfg config.EmailConfig, pool *pgxpool.Pool, mailer email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	sendsPerMinute := emailCfg.GetEmailSendsPerMinute()
	if sendsPerMinute < 1 {
		sendsPerMinute = 30
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		repo:     repository.New(pool),
		mailer:   mailer,
		validate: validator.New(),
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(sendsPerMinute)), 1),
		log:      log,
		now:      time.Now,
	}

	mux.HandleFunc(TaskLeaseExpiryReminder, w.handleLeaseExpiryReminder)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleLeaseExpiryReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeaseExpiryReminderPayload(task)
	if err != nil {
		return err
	}
	if err := w.validate.Struct(payload); err != nil {
		return fmt.Errorf("invalid reminder payload: %w", err)
	}

	contractID, err := uuid.Parse(payload.ContractID)
	if err != nil {
		return err
	}

	contract, err := w.repo.ContractByID(ctx, contractID)
	if err != nil {
		// The contract may have been deleted between scan and delivery.
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if contract.Status != domain.ContractStatusActive {
		return nil
	}

	occupant, err := w.repo.OccupantByID(ctx, contract.OccupantID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if occupant.Email == "" {
		w.log.Warn("occupant has no email, skipping reminder",
			"contractId", contract.ID, "occupantId", occupant.ID)
		return nil
	}

	propertyName := ""
	property, err := w.repo.PropertyByID(ctx, contract.PropertyID)
	if err == nil {
		propertyName = property.Name
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return err
	}

	daysLeft := int(contract.EndDate.Sub(w.now().UTC()).Hours() / 24)
	if daysLeft < 0 {
		daysLeft = 0
	}

	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}

	err = w.mailer.SendLeaseExpiryReminder(ctx, occupant.Email, email.LeaseExpiryReminderData{
		OccupantName: occupant.FullName(),
		PropertyName: propertyName,
		EndDate:      contract.EndDate.Format(endDateFormat),
		ContactPhone: phone.NormalizeE164(occupant.Phone),
		DaysLeft:     daysLeft,
	})
	if err != nil {
		return fmt.Errorf("send lease expiry reminder: %w", err)
	}

	w.log.Info("lease expiry reminder sent",
		"contractId", contract.ID, "occupantId", occupant.ID, "endDate", payload.EndDate)
	return nil
}
