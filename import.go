// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package medseq

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/poiesic/medseq/core"
)

// DefaultImportBatchSize is the number of encounters written per batch.
const DefaultImportBatchSize = 500

// maxLineSize bounds a single JSON line.
const maxLineSize = 16 << 20

// encountersFromJSONL returns an iterator over encounters decoded from one
// JSON object per line. Blank lines are skipped. Decoding stops at the
// first error, which is yielded with its line number.
func encountersFromJSONL(r io.Reader) iter.Seq2[*core.Encounter, error] {
	return func(yield func(*core.Encounter, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			var enc core.Encounter
			if err := json.Unmarshal(line, &enc); err != nil {
				yield(nil, fmt.Errorf("line %d: %w", lineNo, err))
				return
			}
			if !yield(&enc, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Import reads JSON-lines encounters from r and stores them in batches of
// batchSize, replacing any stored encounter with the same id. It returns
// the number of encounters stored.
func (db *Database) Import(ctx context.Context, r io.Reader, batchSize int) (int, error) {
	if batchSize < 1 {
		batchSize = DefaultImportBatchSize
	}
	logger := db.logger.With("component", "import")

	batch := make([]*core.Encounter, 0, batchSize)
	stored := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := db.encounters.AddEncounters(ctx, batch...); err != nil {
			return err
		}
		stored += len(batch)
		logger.Debug("stored batch", "size", len(batch), "total", stored)
		batch = batch[:0]
		return nil
	}

	for enc, err := range encountersFromJSONL(r) {
		if err != nil {
			return stored, err
		}
		if err := core.ValidateEncounter(enc); err != nil {
			return stored, fmt.Errorf("encounter %q: %w", enc.Id, err)
		}
		batch = append(batch, enc)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return stored, err
			}
		}
	}
	if err := flush(); err != nil {
		return stored, err
	}

	logger.Info("import complete", "encounters", stored)
	return stored, nil
}
