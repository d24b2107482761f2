package kafka

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig — базовая ошибка конфигурации; обнаруживается при создании группы.
var ErrInvalidConfig = errors.New("kafka: invalid consumer config")

// Значения по умолчанию.
const (
	DefaultIdleBackoff            = 500 * time.Millisecond
	DefaultFetchMaxWait           = time.Second
	DefaultMaxPartitionFetchBytes = 32 * 1024
	OffsetResetEarliest           = "earliest"
)

// ConsumerConfig — описание подключения: куда, какой топик и как разбирать записи.
// Группа только читает его; хук специализации работает с приватной копией.
type ConsumerConfig struct {
	Brokers           []string     `validate:"required,min=1,dive,required"`
	Topic             string       `validate:"required"`
	SchemaRegistryURL string       `validate:"omitempty,url"`
	KeyDeserializer   Deserializer `validate:"required"`
	ValueDeserializer Deserializer `validate:"required"`

	// PollTimeout — максимальное ожидание одного Poll; 0 — вернуться сразу, если записей нет.
	PollTimeout time.Duration `validate:"gte=0"`
	// IdleBackoff — пауза после каждого цикла опроса.
	IdleBackoff time.Duration `validate:"gte=0"`

	FetchMaxWait           time.Duration `validate:"gte=0"`
	MaxPartitionFetchBytes int           `validate:"gte=0"`
}

// ConfigHook — точка специализации: может поменять конфигурацию перед выводом свойств
// (например, подставить значения окружения).
type ConfigHook func(cfg *ConsumerConfig)

var configValidator = validator.New()

// Validate — проверка обязательных полей; ошибка оборачивает ErrInvalidConfig.
func (c *ConsumerConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	err := configValidator.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
}

// clone — копия со своим срезом брокеров.
func (c *ConsumerConfig) clone() ConsumerConfig {
	cp := *c
	cp.Brokers = append([]string(nil), c.Brokers...)
	return cp
}

// withDefaults — нулевые параметры выборки заменяются значениями по умолчанию.
// PollTimeout не трогаем: 0 — осмысленное значение.
func (c ConsumerConfig) withDefaults() ConsumerConfig {
	if c.IdleBackoff <= 0 {
		c.IdleBackoff = DefaultIdleBackoff
	}
	if c.FetchMaxWait <= 0 {
		c.FetchMaxWait = DefaultFetchMaxWait
	}
	if c.MaxPartitionFetchBytes <= 0 {
		c.MaxPartitionFetchBytes = DefaultMaxPartitionFetchBytes
	}
	return c
}

// resolve — хук, повторная проверка и вывод свойств клиента.
func (c *ConsumerConfig) resolve(hook ConfigHook, clientID, groupID string) (ConsumerConfig, Properties, error) {
	cfg := c.clone()
	if hook != nil {
		hook(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return ConsumerConfig{}, Properties{}, err
	}
	cfg = cfg.withDefaults()

	props := Properties{
		BootstrapServers:       cfg.Brokers,
		SchemaRegistryURL:      cfg.SchemaRegistryURL,
		ClientID:               clientID,
		GroupID:                groupID,
		EnableAutoCommit:       false,
		FetchMaxWait:           cfg.FetchMaxWait,
		MaxPartitionFetchBytes: cfg.MaxPartitionFetchBytes,
		AutoOffsetReset:        OffsetResetEarliest,
		KeyDeserializer:        cfg.KeyDeserializer,
		ValueDeserializer:      cfg.ValueDeserializer,
	}
	return cfg, props, nil
}
