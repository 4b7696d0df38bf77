package budget

import (
	"math"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/eventbus"
	"github.com/fintrack/fintrack/internal/money"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/fintrack/fintrack/pkg/transaction"
	"github.com/fintrack/fintrack/pkg/user"
	log "github.com/sirupsen/logrus"
)

// OverspendWatcher listens for new expense transactions and publishes a
// budget.threshold event when the expense pushes its category past the alert
// threshold for the current month. Purely advisory: failures are logged and
// never affect the write that triggered them.
type OverspendWatcher struct {
	repo   Repo
	ledger transaction.Aggregator
	bus    *eventbus.EventBus
	clock  utils.Clock
}

func NewOverspendWatcher(repo Repo, ledger transaction.Aggregator, bus *eventbus.EventBus, clock utils.Clock) *OverspendWatcher {
	return &OverspendWatcher{repo: repo, ledger: ledger, bus: bus, clock: clock}
}

// Register subscribes the watcher to transaction.created events and returns
// the unsubscribe function.
func (w *OverspendWatcher) Register() func() {
	return eventbus.SubscribeTyped[eventbus.TransactionCreated](w.bus, eventbus.TransactionCreatedType,
		func(e eventbus.EventT[eventbus.TransactionCreated]) error {
			return w.onTransactionCreated(e)
		})
}

func (w *OverspendWatcher) onTransactionCreated(e eventbus.EventT[eventbus.TransactionCreated]) error {
	if e.Data.Kind != string(transaction.KindExpense) {
		return nil
	}

	ctx := e.Context()
	userId, err := user.CurrentId(ctx)
	if err != nil {
		log.Debug("overspend watcher: no user in event context, skipping")
		return nil
	}

	b, err := w.repo.FindByCategory(ctx, userId, e.Data.Category)
	if err != nil {
		// No budget for the category means nothing to watch.
		return nil
	}

	now := w.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	totals, err := w.ledger.SumByCategory(ctx, userId, transaction.KindExpense, monthStart, now)
	if err != nil {
		return err
	}

	var spent money.Cents
	for _, ct := range totals {
		if strings.EqualFold(ct.Category, b.Category) {
			spent += ct.Total
		}
	}

	percentage := float64(spent) / float64(b.Limit) * 100
	if percentage <= ApproachingLimitPct {
		return nil
	}

	log.Warnf("user %d passed %d%% of the %q budget (spent %d of %d cents)",
		userId, ApproachingLimitPct, b.Category, spent, b.Limit)

	return w.bus.Publish(eventbus.NewEvent(ctx, eventbus.BudgetThresholdType, eventbus.BudgetThresholdReached{
		Category:   b.Category,
		SpentCents: int64(spent),
		LimitCents: int64(b.Limit),
		Percentage: int(math.Round(percentage)),
	}))
}
