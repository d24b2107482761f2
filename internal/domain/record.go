package domain

import "time"

// Record — запись, полученная из топика и уже десериализованная.
// Живёт только в течение одного прохода диспетчеризации.
type Record struct {
	Topic     string            `json:"topic"`
	Partition int               `json:"partition"`
	Offset    int64             `json:"offset"`
	Key       any               `json:"key,omitempty"`
	Value     any               `json:"value,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Headers   map[string][]byte `json:"headers,omitempty"`
}

// Clone — поверхностная копия записи с копией заголовков.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	if r.Headers != nil {
		cp.Headers = make(map[string][]byte, len(r.Headers))
		for k, v := range r.Headers {
			cp.Headers[k] = append([]byte(nil), v...)
		}
	}
	return &cp
}
