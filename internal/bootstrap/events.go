package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/osse101/PrizeArena_Go/internal/config"
	"github.com/osse101/PrizeArena_Go/internal/event"
	"github.com/osse101/PrizeArena_Go/internal/eventlog"
	"github.com/osse101/PrizeArena_Go/internal/metrics"
)

// EventSystem is the in-process bus plus the retrying publisher in front of it.
// Services publish through Publisher; subscribers attach to Bus.
type EventSystem struct {
	Bus       event.Bus
	Publisher *event.ResilientPublisher
}

type publisherSettings struct {
	maxRetries     int
	retryDelay     time.Duration
	deadLetterPath string
}

func publisherSettingsFrom(cfg *config.Config) publisherSettings {
	s := publisherSettings{
		maxRetries:     cfg.EventMaxRetries,
		retryDelay:     cfg.EventRetryDelay,
		deadLetterPath: cfg.EventDeadLetterPath,
	}
	if s.maxRetries <= 0 {
		s.maxRetries = config.DefaultEventMaxRetries
	}
	if s.retryDelay <= 0 {
		s.retryDelay = config.DefaultEventRetryDelay
	}
	if s.deadLetterPath == "" {
		s.deadLetterPath = config.DefaultEventDeadLetterPath
	}
	return s
}

// InitializeEventSystem builds the bus and its publisher. Deliveries that
// exhaust their retries land in the event dead-letter file.
func InitializeEventSystem(cfg *config.Config) (*EventSystem, error) {
	s := publisherSettingsFrom(cfg)
	bus := event.NewMemoryBus()

	publisher, err := event.NewResilientPublisher(bus, s.maxRetries, s.retryDelay, s.deadLetterPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", s.maxRetries,
		"retry_delay", s.retryDelay,
		"deadletter_path", s.deadLetterPath)

	return &EventSystem{Bus: bus, Publisher: publisher}, nil
}

// AttachSubscribers registers the metrics collector and the event log on the bus.
func (s *EventSystem) AttachSubscribers(eventLog eventlog.Service) error {
	if err := metrics.NewEventMetricsCollector().Register(s.Bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	if err := eventLog.Subscribe(s.Bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLogger, err)
	}
	slog.Info(LogMsgSubscribersAttached, "event_types", len(event.AllTypes))
	return nil
}
