package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Gunvolt24/kgroup/pkg/validate"
	"github.com/urfave/cli/v3"
)

// createCheckCommand — проверка дампа записей (.json или .jsonl); валидные записи
// печатаются в stdout в каноническом виде.
func createCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "validate a dump of records (.json or .jsonl, '-' for stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "in",
				Usage: "path to input; '-' reads stdin",
				Value: "-",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "input format: auto|json|jsonl",
				Value: string(validate.FormatAuto),
			},
			&cli.IntFlag{
				Name:  "max-value-bytes",
				Usage: "max encoded value size",
				Value: validate.DefaultMaxValueBytes,
			},
			&cli.BoolFlag{
				Name:  "require-value",
				Usage: "reject records without a value",
			},
		},
		Action: checkAction,
	}
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	opts := []validate.Option{validate.WithMaxValueBytes(cmd.Int("max-value-bytes"))}
	if cmd.Bool("require-value") {
		opts = append(opts, validate.WithRequireValue())
	}
	v := validate.NewRecordValidator(opts...)

	summary, err := validate.ValidateFile(ctx, v, cmd.String("in"), validate.InputFormat(cmd.String("format")), cmd.Root().Writer)
	if err != nil {
		return fmt.Errorf("validation: %w (%s)", err, summary)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%s)\n", summary)
	return nil
}
