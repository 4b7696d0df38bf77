package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/fintrack/fintrack/internal/eventbus"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Add(ctx context.Context, transaction Transaction) (Transaction, error)
	List(ctx context.Context) ([]Transaction, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type ServiceImpl struct {
	repo  Repo
	bus   *eventbus.EventBus
	clock utils.Clock
}

func NewService(repo Repo, bus *eventbus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, bus: bus, clock: clock}
}

func (s *ServiceImpl) Add(ctx context.Context, transaction Transaction) (Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Transaction{}, fmt.Errorf("failed to get current user: %w", err)
	}

	transaction.Category = strings.TrimSpace(transaction.Category)
	transaction.Description = strings.TrimSpace(transaction.Description)
	if transaction.OccurredAt.IsZero() {
		transaction.OccurredAt = s.clock.Now()
	}
	if err := transaction.Validate(); err != nil {
		return Transaction{}, err
	}

	stored, err := s.repo.Store(ctx, userId, transaction)
	if err != nil {
		return Transaction{}, err
	}

	if s.bus != nil {
		event := eventbus.NewEvent(ctx, eventbus.TransactionCreatedType, eventbus.TransactionCreated{
			Id:          stored.Id,
			Kind:        string(stored.Kind),
			Category:    stored.Category,
			AmountCents: int64(stored.Amount),
			OccurredAt:  stored.OccurredAt,
		})
		if err := s.bus.Publish(event); err != nil {
			// Subscribers are advisory; the write already succeeded.
			log.Warnf("transaction.created handlers failed: %v", err)
		}
	}

	return stored, nil
}

func (s *ServiceImpl) List(ctx context.Context) ([]Transaction, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("transaction not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", id, userId)
	}
	return deleted, nil
}
