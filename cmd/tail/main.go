// tail — консольный подписчик: запускает группу на топике и печатает записи
// в stdout строками JSON до SIGINT. Подкоманда check проверяет дамп записей.
//
// Примеры:
//
//	tail --brokers localhost:9092 --topic orders
//	tail --driver confluent --value-deserializer string --max 10 --topic orders
//	tail check --in dump.jsonl
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// Version — версия сборки (через -ldflags "-X main.Version=...").
var Version = "dev"

func main() {
	os.Exit(run())
}

func createApp() *cli.Command {
	return &cli.Command{
		Name:     "tail",
		Usage:    "print records of a Kafka topic as JSON lines",
		Version:  Version,
		Flags:    tailFlags(),
		Action:   tailAction,
		Commands: []*cli.Command{createCheckCommand()},
	}
}

func run() int {
	_ = godotenv.Load(".env.local")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := createApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tail: %v\n", err)
		return 1
	}
	return 0
}
