// Package handlers contains the Telegram update handlers of a relay bot
// instance, along with their registration and middleware.
package handlers

import (
	"context"
	"sync"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Detached runs the handler on a context that is not cancelled when polling
// stops, bounded by timeout, so a stopping instance lets the in-flight
// update finish its store and transport calls.
func Detached(timeout time.Duration) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
			defer cancel()
			next(hctx, b, update)
		}
	}
}

// Tracked registers each running handler in wg so the owner can wait for it.
func Tracked(wg *sync.WaitGroup) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
			wg.Add(1)
			defer wg.Done()
			next(ctx, b, update)
		}
	}
}
