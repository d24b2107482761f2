package ports

import "context"

// MessageConsumer — то, что приложение запускает в фоне и останавливает при выходе.
// Run блокирует до остановки; Close сигнализирует циклу завершиться.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
