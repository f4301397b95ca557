package catalog

import (
	"context"
	"strings"

	"github.com/fairyhunter13/product-catalog-state/internal/apperrors"
	"github.com/fairyhunter13/product-catalog-state/internal/obs"
	"github.com/fairyhunter13/product-catalog-state/internal/rx"
)

// ErrorChannel collects failures from every pipeline stage as display
// messages. Late subscribers receive the most recent message.
type ErrorChannel struct {
	subject *rx.Subject[string]
	latest  *rx.Replay[string]
	log     *obs.Logger
	metrics *obs.Metrics
}

func newErrorChannel(log *obs.Logger, metrics *obs.Metrics) *ErrorChannel {
	subject := rx.NewSubject[string]()
	latest := rx.NewReplay[string](subject)
	latest.Connect()
	return &ErrorChannel{subject: subject, latest: latest, log: log, metrics: metrics}
}

// Report converts err to its display message and publishes it. Must run on
// the loop.
func (e *ErrorChannel) Report(stage string, err error) {
	if err == nil {
		return
	}
	msg := apperrors.Message(err)
	kind := "client"
	if typed := apperrors.As(err); typed != nil {
		kind = strings.ToLower(string(typed.Kind()))
	}
	ctx := e.log.WithFields(context.Background(), map[string]any{
		"stage":      stage,
		"error_kind": kind,
		"message":    msg,
	})
	e.log.Error(ctx, "catalog pipeline error", err)
	e.metrics.IncError(kind)
	e.subject.Next(msg)
}

func (e *ErrorChannel) reporter(stage string) func(error) {
	return func(err error) { e.Report(stage, err) }
}

// Messages streams every reported message.
func (e *ErrorChannel) Messages() rx.Observable[string] { return e.latest }

// Latest returns the most recent message, if any. Safe from any goroutine.
func (e *ErrorChannel) Latest() (string, bool) { return e.latest.Value() }
