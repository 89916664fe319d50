package bonus

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/MariusRejdak/igaming/internal/event"
	"github.com/MariusRejdak/igaming/internal/wallet"
)

// ServiceFactory builds a wallet service bound to a user identity. The engine
// resolves services per event so each handler observes fresh customer state.
type ServiceFactory func(ctx context.Context, userID string) (*wallet.Service, error)

// Engine reacts to domain events by granting matching bonus definitions and
// converting bonus wallets whose wagering requirement has been met. Handlers
// run synchronously on the publisher's goroutine; failures are logged and
// never abort the triggering operation.
type Engine struct {
	repo       Repository
	newService ServiceFactory
}

func NewEngine(repo Repository, newService ServiceFactory) *Engine {
	return &Engine{repo: repo, newService: newService}
}

func (e *Engine) Register(bus *event.Bus) {
	bus.Subscribe(event.TopicUserLoggedIn, e.onUserLoggedIn)
	bus.Subscribe(event.TopicDeposited, e.onDeposited)
	bus.Subscribe(event.TopicCustomerUpdated, e.onCustomerUpdated)
}

func (e *Engine) onUserLoggedIn(payload any) {
	evt, ok := payload.(event.UserLoggedIn)
	if !ok {
		return
	}
	e.grantFor(evt.UserID, ActionLogin, decimal.Zero)
}

func (e *Engine) onDeposited(payload any) {
	evt, ok := payload.(event.Deposited)
	if !ok {
		return
	}
	e.grantFor(evt.UserID, ActionDeposit, evt.Amount)
}

func (e *Engine) onCustomerUpdated(payload any) {
	evt, ok := payload.(event.CustomerUpdated)
	if !ok {
		return
	}
	ctx := context.Background()

	ws, err := e.newService(ctx, evt.UserID)
	if err != nil {
		log.Printf("Bonus conversion skipped: user=%s err=%v", evt.UserID, err)
		return
	}
	ready, err := ws.WalletsReadyToConvert(ctx)
	if err != nil {
		log.Printf("Bonus conversion lookup failed: user=%s err=%v", evt.UserID, err)
		return
	}
	for i := range ready {
		if err := ws.ConvertBonusToPrimary(ctx, &ready[i]); err != nil {
			log.Printf("Bonus conversion failed: user=%s wallet=%s err=%v", evt.UserID, ready[i].WalletID, err)
			continue
		}
		log.Printf("Bonus converted: user=%s wallet=%s", evt.UserID, ready[i].WalletID)
	}
}

func (e *Engine) grantFor(userID, action string, amount decimal.Decimal) {
	ctx := context.Background()

	defs, err := e.repo.ForAction(ctx, action, amount)
	if err != nil {
		log.Printf("Bonus lookup failed: user=%s action=%s err=%v", userID, action, err)
		return
	}
	if len(defs) == 0 {
		return
	}

	ws, err := e.newService(ctx, userID)
	if err != nil {
		log.Printf("Bonus grant skipped: user=%s action=%s err=%v", userID, action, err)
		return
	}
	for _, def := range defs {
		grant := wallet.BonusGrant{
			Amount:              def.Amount,
			Currency:            def.Currency,
			WageringRequirement: def.WageringRequirement,
		}
		if err := ws.GrantBonus(ctx, grant); err != nil {
			log.Printf("Bonus grant failed: user=%s bonus=%s err=%v", userID, def.BonusID, err)
			continue
		}
		log.Printf("Bonus granted: user=%s bonus=%s amount=%s", userID, def.BonusID, def.Amount.String())
	}
}
