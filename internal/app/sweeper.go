package app

import (
	"context"
	"time"

	"github.com/tutorlane/slotengine/internal/service"
	"go.uber.org/zap"
)

// Sweeper runs the periodic reclaim tasks: pending bookings whose checkout
// was abandoned are expired so their slots free up, and confirmed sessions
// whose end has passed are marked completed.
type Sweeper struct {
	bookingService *service.BookingService
	interval       time.Duration
	pendingTTL     time.Duration
	logger         *zap.Logger
	stopChan       chan struct{}
}

func NewSweeper(bookingService *service.BookingService, interval, pendingTTL time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		bookingService: bookingService,
		interval:       interval,
		pendingTTL:     pendingTTL,
		logger:         logger,
		stopChan:       make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting booking sweeper",
		zap.Duration("interval", s.interval),
		zap.Duration("pending_ttl", s.pendingTTL),
	)

	go s.run(ctx)
}

// Stop terminates the sweep loop.
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping booking sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// First sweep right at startup.
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Booking sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Booking sweeper cancelled")
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.bookingService.ExpirePending(ctx, s.pendingTTL); err != nil {
		s.logger.Error("Failed to expire pending bookings", zap.Error(err))
	}

	if _, err := s.bookingService.CompleteElapsed(ctx); err != nil {
		s.logger.Error("Failed to complete elapsed bookings", zap.Error(err))
	}
}
