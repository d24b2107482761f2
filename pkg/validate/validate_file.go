package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/kgroup/internal/ports"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ValidateFile — проверяет дамп записей (одна запись JSON или поток JSONL)
// и пишет валидные записи в writer. "-" — stdin (формат auto → jsonl).
func ValidateFile(ctx context.Context, validator ports.RecordValidator, filePath string, format InputFormat, ow io.Writer) (string, error) {
	resSummary := ""

	var in io.Reader = os.Stdin
	if filePath == "-" {
		if format == FormatAuto {
			format = FormatJSONL
		}
	}

	// auto по расширению
	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(filePath)) {
		case ".jsonl":
			format = FormatJSONL
		case ".json":
			format = FormatJSON
		default:
			// по умолчанию считаем JSON
			format = FormatJSON
		}
	}

	if filePath != "-" {
		file, err := os.Open(filePath)
		if err != nil {
			return resSummary, fmt.Errorf("open file: %w", err)
		}
		defer file.Close()
		in = file
	}

	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(in)
		if err != nil {
			return resSummary, fmt.Errorf("read file: %w", err)
		}
		record, err := RecordFromJSON(ctx, validator, raw)
		if err != nil {
			return "0 valid / 1 invalid", err
		}
		canonical, _ := json.Marshal(record)
		if _, err := ow.Write(canonical); err != nil {
			return resSummary, fmt.Errorf("write json: %w", err)
		}
		if _, err := ow.Write([]byte("\n")); err != nil {
			return resSummary, fmt.Errorf("write newline: %w", err)
		}
		return "1 valid / 0 invalid", nil

	case FormatJSONL:
		result, err := ValidateJSONLStream(ctx, validator, in, ow)
		if err != nil {
			return resSummary, err
		}
		return fmt.Sprintf("%d valid / %d invalid", result.ValidLinesCount, result.InvalidLinesCount), nil

	default:
		return resSummary, fmt.Errorf("unsupported format: %s", format)
	}
}
