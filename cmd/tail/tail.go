package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Gunvolt24/kgroup/config"
	"github.com/Gunvolt24/kgroup/internal/app"
	"github.com/Gunvolt24/kgroup/internal/kafka"
	"github.com/Gunvolt24/kgroup/internal/ports"
	"github.com/Gunvolt24/kgroup/pkg/logger"
	"github.com/urfave/cli/v3"
)

func tailFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "brokers",
			Aliases: []string{"b"},
			Usage:   "bootstrap brokers",
			Value:   []string{"localhost:9092"},
			Sources: cli.EnvVars(config.DefaultPrefix + "_KAFKA_BROKERS"),
		},
		&cli.StringFlag{
			Name:    "topic",
			Aliases: []string{"t"},
			Usage:   "topic to subscribe to",
			Sources: cli.EnvVars(config.DefaultPrefix + "_KAFKA_TOPIC"),
		},
		&cli.StringFlag{
			Name:  "driver",
			Usage: "client driver: segmentio|confluent",
			Value: kafka.DriverSegmentio,
		},
		&cli.StringFlag{
			Name:  "key-deserializer",
			Usage: "string|bytes|json",
			Value: "string",
		},
		&cli.StringFlag{
			Name:  "value-deserializer",
			Usage: "string|bytes|json",
			Value: "json",
		},
		&cli.StringFlag{
			Name:  "schema-registry",
			Usage: "schema registry URL (passed through to the client properties)",
		},
		&cli.DurationFlag{
			Name:  "poll-timeout",
			Usage: "max wait of a single poll",
			Value: 200 * time.Millisecond,
		},
		&cli.IntFlag{
			Name:  "max",
			Usage: "stop after N records (0 — until interrupted)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log consumer group events to stderr",
		},
	}
}

func tailAction(ctx context.Context, cmd *cli.Command) error {
	var log ports.Logger = ports.NopLogger{}
	if cmd.Bool("verbose") {
		zl, cleanup, err := logger.NewZapLogger(false)
		if err != nil {
			return err
		}
		defer func() { _ = cleanup() }()
		log = zl
	}

	cc, err := app.ConsumerConfig(&config.Kafka{
		Brokers:           cmd.StringSlice("brokers"),
		Topic:             cmd.String("topic"),
		SchemaRegistryURL: cmd.String("schema-registry"),
		KeyDeserializer:   cmd.String("key-deserializer"),
		ValueDeserializer: cmd.String("value-deserializer"),
		PollTimeout:       cmd.Duration("poll-timeout"),
	})
	if err != nil {
		return err
	}
	opener, err := kafka.OpenerByDriver(cmd.String("driver"), log)
	if err != nil {
		return err
	}
	group, err := kafka.NewConsumerGroup(&cc, opener, log)
	if err != nil {
		return err
	}

	printer := newPrinter(os.Stdout, cmd.Int("max"), group.Shutdown)
	group.Register(printer)

	fmt.Fprintf(os.Stderr, "tailing topic=%s group_id=%s (Ctrl+C to stop)\n", cc.Topic, group.GroupID())
	if err := group.Run(ctx); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d records, last offset %d\n", printer.Count(), group.Offset())
	return nil
}
