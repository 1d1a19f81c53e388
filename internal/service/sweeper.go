package service

import (
	"context"
	"log"
	"time"

	"github.com/ramadanhub/backend/internal/repository"
)

// SweeperService runs periodic housekeeping: expiring subscriptions past
// their period end and topping lapsed free-tier credit counters back up.
type SweeperService struct {
	subs      *repository.SubscriptionRepository
	credits   *repository.CreditRepository
	allowance int
	interval  time.Duration
}

// NewSweeperService creates a new sweeper. allowance is the monthly free
// credit grant.
func NewSweeperService(subs *repository.SubscriptionRepository, credits *repository.CreditRepository, allowance int) *SweeperService {
	return &SweeperService{
		subs:      subs,
		credits:   credits,
		allowance: allowance,
		interval:  time.Hour,
	}
}

// Start begins the sweep loop in a background goroutine.
func (s *SweeperService) Start(ctx context.Context) {
	go func() {
		s.sweep(context.Background())
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(context.Background())
			}
		}
	}()
}

func (s *SweeperService) sweep(ctx context.Context) {
	expired, err := s.subs.ExpireOverdue(ctx)
	if err != nil {
		log.Printf("[Sweeper] Failed to expire subscriptions: %v", err)
	} else if expired > 0 {
		log.Printf("[Sweeper] Expired %d overdue subscriptions", expired)
	}

	reset, err := s.credits.ResetLapsed(ctx, s.allowance, 30*24*time.Hour)
	if err != nil {
		log.Printf("[Sweeper] Failed to reset lapsed credits: %v", err)
	} else if reset > 0 {
		log.Printf("[Sweeper] Reset credits for %d accounts", reset)
	}
}
