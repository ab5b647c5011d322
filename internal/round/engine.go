package round

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"colorrush/internal/clock"
	"colorrush/internal/domain"
	"colorrush/internal/draw"
	"colorrush/internal/event"
	"colorrush/internal/ledger"
	"colorrush/internal/logger"
)

// RenderFunc receives the full display state after every state change.
// It is invoked with the engine lock held and must not call back into
// the engine.
type RenderFunc func(domain.RenderState)

// Engine is the round state machine. It sequences the single active
// round through Waiting, Betting, Resolving and Resolved, drives the
// drawer and the ledger at the right transitions, and owns every timer.
//
// All mutation runs under one mutex; timer callbacks take the same lock,
// so rounds never overlap and the ledger is never touched concurrently.
type Engine struct {
	mu       sync.Mutex
	clk      clock.Clock
	drawer   *draw.Drawer
	ledger   *ledger.Ledger
	eventBus event.Bus
	render   RenderFunc
	printer  *message.Printer

	round       domain.Round
	staked      bool
	lastResult  *domain.RoundResult
	signedIn    bool
	displayName string

	countdownTimer clock.Timer
	settleTimer    clock.Timer
	displayTimer   clock.Timer
	shutdown       bool
}

// NewEngine creates a round engine in the Waiting phase. The render
// callback may be nil.
func NewEngine(clk clock.Clock, drawer *draw.Drawer, ldg *ledger.Ledger, eventBus event.Bus, render RenderFunc) *Engine {
	return &Engine{
		clk:      clk,
		drawer:   drawer,
		ledger:   ldg,
		eventBus: eventBus,
		render:   render,
		printer:  message.NewPrinter(language.English),
		round: domain.Round{
			Number:           1,
			Phase:            domain.PhaseWaiting,
			CountdownSeconds: CountdownSeconds,
		},
	}
}

// StartGame moves the machine from Waiting into the first Betting phase
func (e *Engine) StartGame(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.round.Phase != domain.PhaseWaiting {
		return fmt.Errorf("%w: cannot start in phase %s", domain.ErrWrongPhase, e.round.Phase)
	}

	e.enterBetting(ctx)
	return nil
}

// SelectColor records the user's predicted color for the current round
func (e *Engine) SelectColor(ctx context.Context, color domain.Color) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !domain.ValidColor(color) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidColor, color)
	}
	if e.round.Phase == domain.PhaseWaiting {
		return domain.ErrGameNotStarted
	}
	if e.round.Phase != domain.PhaseBetting {
		return fmt.Errorf("%w: cannot select color in phase %s", domain.ErrWrongPhase, e.round.Phase)
	}

	e.round.SelectedColor = color
	e.renderLocked()
	return nil
}

// Stake places the wager on the selected color and locks the round. The
// debit happens synchronously; resolution follows after the settle
// delay.
func (e *Engine) Stake(ctx context.Context, amount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.round.Phase == domain.PhaseWaiting {
		return domain.ErrGameNotStarted
	}
	if e.round.Phase != domain.PhaseBetting {
		return fmt.Errorf("%w: cannot stake in phase %s", domain.ErrWrongPhase, e.round.Phase)
	}
	if e.round.SelectedColor == "" {
		return fmt.Errorf("%w: no color selected", domain.ErrInvalidWager)
	}

	if _, err := e.ledger.Stake(ctx, e.round.SelectedColor, amount, e.round.Number, e.clk.Now()); err != nil {
		return err
	}
	_ = e.ledger.SetBetAmount(amount)

	e.staked = true
	e.beginResolving(ctx)
	return nil
}

// AcknowledgeResult skips the remaining display delay and starts the
// next round immediately.
func (e *Engine) AcknowledgeResult(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.round.Phase != domain.PhaseResolved {
		return fmt.Errorf("%w: nothing to acknowledge in phase %s", domain.ErrWrongPhase, e.round.Phase)
	}

	stopTimer(&e.displayTimer)
	e.advance(ctx)
	return nil
}

// State returns the current display state
func (e *Engine) State(ctx context.Context) domain.RenderState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// HydrateLedger replaces the ledger contents from a loaded snapshot.
// Called by the session bridge after a sign-in load completes.
func (e *Engine) HydrateLedger(ctx context.Context, snap domain.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.Hydrate(ctx, snap)
	e.renderLocked()
}

// ResetLedger restores the ledger defaults in place. Called by the
// session bridge on sign-out; no remote interaction.
func (e *Engine) ResetLedger(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.Reset(ctx)
	e.renderLocked()
}

// SetIdentity updates the signed-in indicator shown in display state
func (e *Engine) SetIdentity(signedIn bool, displayName string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.signedIn = signedIn
	e.displayName = displayName
	e.renderLocked()
}

// Shutdown cancels every pending timer. The machine stays in its
// current phase; no further transitions fire.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown = true
	stopTimer(&e.countdownTimer)
	stopTimer(&e.settleTimer)
	stopTimer(&e.displayTimer)
	return nil
}

// enterBetting resets the countdown and selected color and starts the
// tick timer. The previous countdown timer is always cancelled first so
// two tickers can never run at once.
func (e *Engine) enterBetting(ctx context.Context) {
	stopTimer(&e.countdownTimer)

	e.round.Phase = domain.PhaseBetting
	e.round.CountdownSeconds = CountdownSeconds
	e.round.SelectedColor = ""
	e.staked = false

	logger.FromContext(ctx).Info(LogMsgRoundStarted, "round", e.round.Number)

	e.scheduleTick()
	e.renderLocked()
}

func (e *Engine) scheduleTick() {
	e.countdownTimer = e.clk.AfterFunc(TickInterval, e.tick)
}

// tick decrements the countdown once per second while Betting. Reaching
// zero forces resolution whether or not a stake was placed.
func (e *Engine) tick() {
	ctx := context.Background()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown || e.round.Phase != domain.PhaseBetting {
		return
	}

	e.round.CountdownSeconds--
	if e.round.CountdownSeconds <= 0 {
		logger.FromContext(ctx).Info(LogMsgCountdownForced, "round", e.round.Number)
		e.beginResolving(ctx)
		return
	}

	e.scheduleTick()
	e.renderLocked()
}

// beginResolving locks the round and schedules the outcome draw
func (e *Engine) beginResolving(ctx context.Context) {
	stopTimer(&e.countdownTimer)

	e.round.Phase = domain.PhaseResolving
	e.settleTimer = e.clk.AfterFunc(SettleDelay, e.resolve)
	e.renderLocked()
}

// resolve draws the outcome, settles any pending stake and enters the
// Resolved phase.
func (e *Engine) resolve() {
	ctx := context.Background()
	log := logger.FromContext(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown || e.round.Phase != domain.PhaseResolving {
		return
	}

	drawn := e.drawer.Draw()
	result := domain.RoundResult{
		Round: e.round.Number,
		Drawn: drawn,
	}

	if e.staked {
		bet, err := e.ledger.Settle(ctx, e.round.Number, drawn)
		if err != nil {
			// Single-round-in-flight makes this unreachable; record the
			// outcome so history stays consistent.
			log.Error("Settlement failed", "round", e.round.Number, "error", err)
			e.ledger.RecordOutcome(ctx, e.round.Number, drawn)
		} else {
			result.Staked = true
			result.Won = bet.Won
			result.Winnings = bet.Winnings
			result.Celebrate = bet.Won && bet.Winnings > bet.Amount
		}
	} else {
		e.ledger.RecordOutcome(ctx, e.round.Number, drawn)
	}

	e.round.Phase = domain.PhaseResolved
	e.lastResult = &result

	log.Info(LogMsgRoundResolved,
		"round", result.Round,
		"drawn", string(drawn),
		"staked", result.Staked,
		"won", result.Won,
		"winnings", result.Winnings)

	if err := e.eventBus.Publish(ctx, event.NewRoundSettledEvent(result)); err != nil {
		log.Error(LogMsgPublishFailed, "error", err)
	}

	e.displayTimer = e.clk.AfterFunc(DisplayDelay, e.autoAdvance)
	e.renderLocked()
}

func (e *Engine) autoAdvance() {
	ctx := context.Background()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown || e.round.Phase != domain.PhaseResolved {
		return
	}
	e.advance(ctx)
}

// advance increments the round number and re-enters Betting
func (e *Engine) advance(ctx context.Context) {
	e.round.Number++
	e.enterBetting(ctx)
}

func (e *Engine) stateLocked() domain.RenderState {
	snap := e.ledger.Snapshot()

	history := make([]domain.Color, len(snap.History))
	for i, entry := range snap.History {
		history[i] = entry.Color
	}

	winRate := 0
	if snap.Stats.TotalBets > 0 {
		winRate = snap.Stats.Wins * 100 / snap.Stats.TotalBets
	}

	var last *domain.RoundResult
	if e.lastResult != nil {
		copied := *e.lastResult
		last = &copied
	}

	return domain.RenderState{
		Balance:        snap.Balance,
		BalanceDisplay: e.printer.Sprintf("%d", snap.Balance),
		Stats:          snap.Stats,
		WinRatePercent: winRate,
		Round:          e.round,
		History:        history,
		RecentBets:     snap.RecentBets,
		LastResult:     last,
		SignedIn:       e.signedIn,
		DisplayName:    e.displayName,
	}
}

func (e *Engine) renderLocked() {
	if e.render == nil {
		return
	}
	e.render(e.stateLocked())
}

func stopTimer(t *clock.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
