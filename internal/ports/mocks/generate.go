//go:generate mockgen -source=../logger.go                 -destination=./mock_logger.go                 -package=mocks
//go:generate mockgen -source=../message_consumer.go       -destination=./mock_message_consumer.go       -package=mocks
//go:generate mockgen -source=../message_handler.go        -destination=./mock_message_handler.go        -package=mocks
//go:generate mockgen -source=../record_repository.go      -destination=./mock_record_repository.go      -package=mocks
//go:generate mockgen -source=../record_buffer.go          -destination=./mock_record_buffer.go          -package=mocks
//go:generate mockgen -source=../validator.go              -destination=./mock_validator.go              -package=mocks
//go:generate mockgen -source=../consumer_read_service.go  -destination=./mock_consumer_read_service.go  -package=mocks

package mocks
