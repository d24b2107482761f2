package validate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/kgroup/internal/ports"
)

// JSONLResult — статистика валидации потока JSONL.
type JSONLResult struct {
	ValidLinesCount   int
	InvalidLinesCount int
	// FirstError — причина первой отброшенной строки (для диагностики).
	FirstError error
}

// ValidateJSONLStream — построчная проверка дампа записей; валидные строки
// переписываются в writer компактным JSON, пустые пропускаются.
func ValidateJSONLStream(ctx context.Context, validator ports.RecordValidator, ir io.Reader, ow io.Writer) (JSONLResult, error) {
	var res JSONLResult

	scanner := bufio.NewScanner(ir)
	// значение может доходить до DefaultMaxValueBytes
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}

		record, err := RecordFromJSON(ctx, validator, lineBytes)
		if err != nil {
			res.InvalidLinesCount++
			if res.FirstError == nil {
				res.FirstError = fmt.Errorf("line %d: %w", line, err)
			}
			continue
		}

		marshal, _ := json.Marshal(record)
		if _, err := ow.Write(marshal); err != nil {
			return res, fmt.Errorf("write valid line: %w", err)
		}
		if _, err := ow.Write([]byte("\n")); err != nil {
			return res, fmt.Errorf("write newline: %w", err)
		}
		res.ValidLinesCount++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
