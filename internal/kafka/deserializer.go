package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDeserialize — запись не удалось разобрать выбранной стратегией.
var ErrDeserialize = errors.New("kafka: deserialize failed")

// Deserializer — стратегия превращения сырых байт ключа/значения в значение записи.
type Deserializer interface {
	Name() string
	Deserialize(topic string, data []byte) (any, error)
}

// StringDeserializer — байты как UTF-8 строка.
type StringDeserializer struct{}

func (StringDeserializer) Name() string { return "string" }

func (StringDeserializer) Deserialize(_ string, data []byte) (any, error) {
	if data == nil {
		return nil, nil
	}
	return string(data), nil
}

// BytesDeserializer — копия байт без преобразований.
type BytesDeserializer struct{}

func (BytesDeserializer) Name() string { return "bytes" }

func (BytesDeserializer) Deserialize(_ string, data []byte) (any, error) {
	if data == nil {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

// JSONDeserializer — произвольный JSON в map/slice/скаляры.
type JSONDeserializer struct{}

func (JSONDeserializer) Name() string { return "json" }

func (JSONDeserializer) Deserialize(topic string, data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: topic=%s json: %v", ErrDeserialize, topic, err)
	}
	return v, nil
}

// DeserializerByName — стратегия по имени из конфигурации (string|bytes|json).
// Пустое имя — string.
func DeserializerByName(name string) (Deserializer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "string":
		return StringDeserializer{}, nil
	case "bytes":
		return BytesDeserializer{}, nil
	case "json":
		return JSONDeserializer{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown deserializer %q", ErrInvalidConfig, name)
	}
}

// decodeKV — общий для драйверов шаг: десериализует ключ и значение.
func decodeKV(props *Properties, topic string, key, value []byte) (k, v any, err error) {
	if k, err = props.KeyDeserializer.Deserialize(topic, key); err != nil {
		return nil, nil, fmt.Errorf("key: %w", err)
	}
	if v, err = props.ValueDeserializer.Deserialize(topic, value); err != nil {
		return nil, nil, fmt.Errorf("value: %w", err)
	}
	return k, v, nil
}
