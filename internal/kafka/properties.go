package kafka

import (
	"strconv"
	"strings"
	"time"
)

// Имена свойств клиента.
const (
	PropBootstrapServers       = "bootstrap.servers"
	PropSchemaRegistryURL      = "schema.registry.url"
	PropClientID               = "client.id"
	PropGroupID                = "group.id"
	PropEnableAutoCommit       = "enable.auto.commit"
	PropFetchMaxWaitMs         = "fetch.max.wait.ms"
	PropMaxPartitionFetchBytes = "max.partition.fetch.bytes"
	PropAutoOffsetReset        = "auto.offset.reset"
	PropKeyDeserializer        = "key.deserializer"
	PropValueDeserializer      = "value.deserializer"
)

// Properties — набор свойств, с которыми открывается клиент.
type Properties struct {
	BootstrapServers       []string
	SchemaRegistryURL      string
	ClientID               string
	GroupID                string
	EnableAutoCommit       bool
	FetchMaxWait           time.Duration
	MaxPartitionFetchBytes int
	AutoOffsetReset        string
	KeyDeserializer        Deserializer
	ValueDeserializer      Deserializer
}

// Map — строковое представление свойств (для логов и драйверов на key/value-конфиге).
func (p *Properties) Map() map[string]string {
	m := map[string]string{
		PropBootstrapServers:       joinBrokers(p.BootstrapServers),
		PropClientID:               p.ClientID,
		PropGroupID:                p.GroupID,
		PropEnableAutoCommit:       strconv.FormatBool(p.EnableAutoCommit),
		PropFetchMaxWaitMs:         strconv.FormatInt(p.FetchMaxWait.Milliseconds(), 10),
		PropMaxPartitionFetchBytes: strconv.Itoa(p.MaxPartitionFetchBytes),
		PropAutoOffsetReset:        p.AutoOffsetReset,
	}
	if p.SchemaRegistryURL != "" {
		m[PropSchemaRegistryURL] = p.SchemaRegistryURL
	}
	if p.KeyDeserializer != nil {
		m[PropKeyDeserializer] = p.KeyDeserializer.Name()
	}
	if p.ValueDeserializer != nil {
		m[PropValueDeserializer] = p.ValueDeserializer.Name()
	}
	return m
}

func joinBrokers(brokers []string) string {
	return strings.Join(brokers, ",")
}
