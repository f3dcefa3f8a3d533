package bot

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iamwavecut/ngmod/internal/i18n"
)

const (
	UpdateTimeout = 5 * time.Minute
)

type (
	UpdateProcessor struct {
		s              Service
		updateHandlers []namedHandler
	}

	namedHandler struct {
		name    string
		handler Handler
	}
)

var (
	registryMu         sync.RWMutex
	registeredHandlers = make(map[string]Handler)
)

func RegisterUpdateHandler(title string, handler Handler) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registeredHandlers[title] = handler
}

// NewUpdateProcessor chains the registered handlers named in enabled, in that order.
func NewUpdateProcessor(s Service, enabled []string) *UpdateProcessor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	enabledHandlers := make([]namedHandler, 0, len(enabled))
	for _, handlerName := range enabled {
		handler, ok := registeredHandlers[handlerName]
		if !ok || handler == nil {
			log.Warnf("no registered handler: %s", handlerName)
			continue
		}
		enabledHandlers = append(enabledHandlers, namedHandler{name: handlerName, handler: handler})
	}

	return &UpdateProcessor{
		s:              s,
		updateHandlers: enabledHandlers,
	}
}

func (up *UpdateProcessor) Process(ctx context.Context, u *Update) error {
	if u == nil {
		return errors.New("update is nil")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	updateTime := u.Time()
	if time.Since(updateTime) > UpdateTimeout {
		log.WithFields(log.Fields{
			"kind":        u.Kind(),
			"update_time": updateTime,
			"age":         time.Since(updateTime),
		}).Debug("Skipping outdated update")
		ReplyUnprocessed(ctx, u)
		return nil
	}

	for _, h := range up.updateHandlers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		proceed, err := h.handler.Handle(ctx, u)
		if err != nil {
			return errors.WithMessagef(err, "handler %s", h.name)
		}
		if !proceed {
			log.WithField("handler", h.name).Trace("not proceeding")
			return nil
		}
	}
	return nil
}

// ReplyUnprocessed tells the invoker of an already acknowledged command that
// it was dropped before any handler saw it. Other updates are ignored.
func ReplyUnprocessed(ctx context.Context, u *Update) {
	if u == nil || u.Command == nil || u.Command.Responder == nil {
		return
	}
	text := i18n.Get("Something went wrong, try again later.", "")
	if err := u.Command.Responder.Reply(ctx, text); err != nil {
		log.WithError(err).WithField("command", u.Command.Name).Warn("cant reply to dropped command")
	}
}
