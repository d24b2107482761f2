//go:generate mockgen -source=../segmentio.go -destination=./mock_reader.go -package=mocks
//go:generate mockgen -destination=./mock_client.go -package=mocks github.com/Gunvolt24/kgroup/internal/kafka Client,Seeker

package mocks
