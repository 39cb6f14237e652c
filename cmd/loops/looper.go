package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sareeloom/storefront/cmd/loops/recurring"
	"github.com/sareeloom/storefront/cmd/loops/tasks/housekeeping"
	"github.com/sareeloom/storefront/cmd/loops/tasks/notification"
	configs "github.com/sareeloom/storefront/pkg/configs/storefront"
	"github.com/sareeloom/storefront/pkg/domain"
	storefrontdb "github.com/sareeloom/storefront/pkg/domain/storefront/db"
	"github.com/sareeloom/storefront/pkg/loop"
	"github.com/sareeloom/storefront/pkg/notify"
)

type LoggerOptions func(*log.Logger) *log.Logger

func byLogger(l *log.Logger, opt ...LoggerOptions) *log.Logger {
	for _, o := range opt {
		l = o(l)
	}
	return l
}

func Copied() LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		return log.New(l.Writer(), l.Prefix(), l.Flags())
	}
}

func WithPrefix(pre string) LoggerOptions {
	return func(l *log.Logger) *log.Logger {
		l.SetPrefix(pre)
		return l
	}
}

// monitor logs start and end of each cycle of the task.
func monitor[T any](logger *log.Logger, task loop.Task[T]) loop.Task[T] {
	var counter uint64
	return func(ctx context.Context, t T) (ret T, next loop.Next) {
		counter += 1
		timestamp := time.Now()

		logger.Printf("task start: #0x%X: ", counter)
		defer func() {
			logger.Printf(
				"task end: #0x%X (takes %s): %s\n with value = %+v",
				counter, time.Since(timestamp), next, ret,
			)
		}()

		ret, next = task(ctx, t)
		return
	}
}

// Manifest for starting a loop, which determines how the loop should behave.
type LoopManifest struct {
	Type domain.LoopType

	// Policy for the looping
	Policy recurring.Policy
}

// StartLoop runs the loop of the type in the manifest until it breaks.
func StartLoop(
	ctx context.Context,
	logger *log.Logger,
	db storefrontdb.Database,
	conf *configs.StorefrontConfig,
	manifest LoopManifest,
) error {
	switch manifest.Type {
	case domain.NotificationLoop:
		return StartNotificationLoop(ctx, logger, db, conf, manifest)
	case domain.Housekeeping:
		return StartHousekeepingLoop(ctx, logger, db, conf, manifest)
	}
	return fmt.Errorf("%w: %s", domain.ErrUnknownLoopType, manifest.Type)
}

func StartNotificationLoop(
	ctx context.Context,
	logger *log.Logger,
	db storefrontdb.Database,
	conf *configs.StorefrontConfig,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[notification loop]"))
	dispatcher := notify.NewDispatcher(
		db.Notification(),
		notify.Webhooks{URLs: conf.Notification().Hooks()},
		conf.Notification().MaxAttempts(),
		l,
	)
	_, err := loop.Start(
		ctx, notification.Seed(),
		monitor(l, notification.Task(dispatcher, 20).Applied(manifest.Policy)),
		loop.WithTimeout(time.Minute),
	)
	return err
}

func StartHousekeepingLoop(
	ctx context.Context,
	logger *log.Logger,
	db storefrontdb.Database,
	conf *configs.StorefrontConfig,
	manifest LoopManifest,
) error {
	l := byLogger(logger, Copied(), WithPrefix("[housekeeping loop]"))
	_, err := loop.Start(
		ctx, housekeeping.Seed(conf.Housekeeping().PendingOrderTTL()),
		monitor(l, housekeeping.Task(db.Order(), l, time.Now).Applied(manifest.Policy)),
		loop.WithTimeout(30*time.Second),
	)
	return err
}
