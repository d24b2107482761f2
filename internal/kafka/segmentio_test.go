package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gunvolt24/kgroup/internal/kafka/mocks"
	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func blockUntilDone(ctx context.Context) (kafka.Message, error) {
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func newTestSegmentio(t *testing.T, value Deserializer) (*segmentioClient, *mocks.Mockreader) {
	t.Helper()
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)

	props := Properties{
		BootstrapServers:  []string{"broker:9092"},
		GroupID:           "g-1",
		ClientID:          "c-1",
		KeyDeserializer:   StringDeserializer{},
		ValueDeserializer: value,
	}
	var gotCfg kafka.ReaderConfig
	c := newSegmentioClient(props, func(rc kafka.ReaderConfig) reader {
		gotCfg = rc
		return r
	})
	require.NoError(t, c.Subscribe("orders"))
	require.Equal(t, "orders", gotCfg.Topic)
	require.Equal(t, "g-1", gotCfg.GroupID)
	return c, r
}

func TestSegmentio_PollBeforeSubscribe(t *testing.T) {
	c := newSegmentioClient(Properties{}, nil)

	_, err := c.Poll(context.Background(), time.Millisecond)
	require.ErrorIs(t, err, ErrNotSubscribed)
	require.NoError(t, c.Close())
}

func TestSegmentio_SubscribeTwice(t *testing.T) {
	c, _ := newTestSegmentio(t, StringDeserializer{})
	require.Error(t, c.Subscribe("payments"))
}

func TestSegmentio_PollDrainsBufferedMessages(t *testing.T) {
	c, r := newTestSegmentio(t, JSONDeserializer{})
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	gomock.InOrder(
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{
			Topic: "orders", Partition: 1, Offset: 5,
			Key: []byte("k5"), Value: []byte(`{"id":5}`), Time: ts,
			Headers: []kafka.Header{{Key: "trace", Value: []byte("abc")}},
		}, nil),
		r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{
			Topic: "orders", Partition: 1, Offset: 6, Value: []byte(`"six"`),
		}, nil),
		r.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(blockUntilDone),
	)

	batch, err := c.Poll(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	require.Equal(t, int64(5), batch[0].Offset)
	require.Equal(t, 1, batch[0].Partition)
	require.Equal(t, "k5", batch[0].Key)
	require.Equal(t, map[string]any{"id": float64(5)}, batch[0].Value)
	require.Equal(t, ts, batch[0].Timestamp)
	require.Equal(t, map[string][]byte{"trace": []byte("abc")}, batch[0].Headers)

	require.Equal(t, int64(6), batch[1].Offset)
	require.Nil(t, batch[1].Key)
	require.Equal(t, "six", batch[1].Value)
	require.Nil(t, batch[1].Headers)
}

func TestSegmentio_PollTimeoutReturnsEmpty(t *testing.T) {
	c, r := newTestSegmentio(t, StringDeserializer{})
	r.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(blockUntilDone)

	batch, err := c.Poll(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, batch)
}

func TestSegmentio_PollInterrupted(t *testing.T) {
	c, r := newTestSegmentio(t, StringDeserializer{})
	r.EXPECT().FetchMessage(gomock.Any()).DoAndReturn(blockUntilDone)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := c.Poll(ctx, time.Minute)
	require.ErrorIs(t, err, ErrInterrupted)
}

func TestSegmentio_PollTransportError(t *testing.T) {
	c, r := newTestSegmentio(t, StringDeserializer{})
	errIO := errors.New("connection reset")
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, errIO)

	_, err := c.Poll(context.Background(), time.Second)
	require.ErrorIs(t, err, errIO)
}

func TestSegmentio_PollDeserializeError(t *testing.T) {
	c, r := newTestSegmentio(t, JSONDeserializer{})
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{
		Topic: "orders", Offset: 3, Value: []byte("{broken"),
	}, nil)

	_, err := c.Poll(context.Background(), time.Second)
	require.ErrorIs(t, err, ErrDeserialize)
	require.Contains(t, err.Error(), "offset=3")
}

func TestSegmentio_Close(t *testing.T) {
	c, r := newTestSegmentio(t, StringDeserializer{})
	r.EXPECT().Close().Return(nil)
	require.NoError(t, c.Close())
}
