package telegram

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Jahongir0126/jpg2pdf-converter/internal/services"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Handler processes one bot event.
type Handler interface {
	Handle(ctx context.Context, event any)
}

type updateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Poller long-polls for updates. Every update runs as its own task; tasks of one user
// run one at a time in arrival order, different users run concurrently.
type Poller struct {
	source  updateSource
	handler Handler
	timeout int

	mu     sync.Mutex
	queues map[int64]*userQueue
	wg     sync.WaitGroup
}

type userQueue struct {
	tasks []func()
}

func NewPoller(source updateSource, handler Handler, timeout int) *Poller {
	return &Poller{
		source:  source,
		handler: handler,
		timeout: timeout,
		queues:  make(map[int64]*userQueue),
	}
}

// Run blocks until ctx is cancelled or the update channel closes, then waits for in-flight tasks.
func (p *Poller) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = p.timeout
	cfg.AllowedUpdates = []string{"message", "callback_query"}
	updates := p.source.GetUpdatesChan(cfg)

	// In-flight tasks finish even when polling stops.
	taskCtx := context.WithoutCancel(ctx)
	slog.Info("Polling for updates.", "timeout", p.timeout)

	for {
		select {
		case <-ctx.Done():
			p.source.StopReceivingUpdates()
			p.wg.Wait()
			slog.Info("Polling stopped.")
			return nil
		case u, ok := <-updates:
			if !ok {
				p.wg.Wait()
				return nil
			}
			p.dispatch(taskCtx, u)
		}
	}
}

func (p *Poller) dispatch(ctx context.Context, u tgbotapi.Update) {
	event, ok := ToEvent(u)
	if !ok {
		slog.Debug("Skipping update.", "updateId", u.UpdateID)
		return
	}
	userID, _ := services.EventUser(event)
	p.submit(userID, func() { p.handler.Handle(ctx, event) })
}

func (p *Poller) submit(userID int64, task func()) {
	p.wg.Add(1)

	p.mu.Lock()
	q, running := p.queues[userID]
	if !running {
		q = &userQueue{}
		p.queues[userID] = q
	}
	q.tasks = append(q.tasks, task)
	p.mu.Unlock()

	if !running {
		go p.drain(userID, q)
	}
}

func (p *Poller) drain(userID int64, q *userQueue) {
	for {
		p.mu.Lock()
		if len(q.tasks) == 0 {
			delete(p.queues, userID)
			p.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		p.mu.Unlock()

		task()
		p.wg.Done()
	}
}
