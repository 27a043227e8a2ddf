package router

import (
	"time"

	tg "github.com/izimoto/paintbot/core/telegram"
	"github.com/izimoto/paintbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FlowRouter is the minimal interface for an active-conversation handler.
// Text updates are consumed by the active flow before command lookup.
type FlowRouter interface {
	InProgress(c tele.Context) bool
	HandleText(c tele.Context) error
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoute builds the handler for free-text routing: active flow first,
// then command lookup, then fallback.
func TextRoute(flows FlowRouter, reg *tg.Registry, opts TextOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if flows != nil && flows.InProgress(c) {
			return handleWithSummary(c, "flow", start, "", func() error {
				return flows.HandleText(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", nil)
		return nil
	}

	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
