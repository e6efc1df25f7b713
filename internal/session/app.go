package session

import "go.uber.org/zap"

// Notifier reports user-facing outcomes, e.g. a save that could not be
// persisted.
type Notifier interface {
	Info(msg string)
	Error(msg string, err error)
}

type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

func (n *LogNotifier) Info(msg string) {
	n.logger.Info(msg)
}

func (n *LogNotifier) Error(msg string, err error) {
	n.logger.Error(msg, zap.Error(err))
}

// App is the context handed to every component instead of globals.
type App struct {
	Logger   *zap.Logger
	Store    Store
	Auth     *Auth
	Notifier Notifier
}

func NewApp(logger *zap.Logger, store Store, notifier Notifier) *App {
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}

	return &App{
		Logger:   logger,
		Store:    store,
		Auth:     NewAuth(store),
		Notifier: notifier,
	}
}
