package kafka

import (
	"fmt"
	"strings"

	"github.com/Gunvolt24/kgroup/internal/ports"
)

// Имена драйверов из конфигурации.
const (
	DriverSegmentio = "segmentio"
	DriverConfluent = "confluent"
)

// OpenerByDriver — фабрика клиентов по имени драйвера. Пустое имя — segmentio.
func OpenerByDriver(name string, log ports.Logger) (Opener, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", DriverSegmentio:
		return NewSegmentioOpener(), nil
	case DriverConfluent:
		return NewConfluentOpener(log), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, name)
	}
}
