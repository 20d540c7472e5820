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


package checkpoint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/medseq/network"
)

// EpochSaver persists the model and the completed epoch counter after every
// epoch, so an interruption loses at most the epoch in progress.
type EpochSaver struct {
	dir    *Dir
	resume bool
}

var _ network.Callback = (*EpochSaver)(nil)

// NewEpochSaver creates a saver writing into dir. In resume mode the saver
// requires the stored counter to equal the epoch being saved.
func NewEpochSaver(dir *Dir, resume bool) *EpochSaver {
	return &EpochSaver{dir: dir, resume: resume}
}

// OnEpochEnd writes partially_trained_model and then done_epochs = epoch+1.
// Weights go first so the counter never claims an epoch whose weights are
// not on disk.
func (s *EpochSaver) OnEpochEnd(_ context.Context, epoch int, m *network.Model, _ network.Metrics) error {
	if s.resume {
		done, err := s.dir.LoadDoneEpochs()
		if err != nil {
			return err
		}
		if done != epoch {
			return fmt.Errorf("%w: saving epoch %d over counter %d", ErrCounterRegression, epoch, done)
		}
	}
	if err := s.dir.SavePartialModel(m); err != nil {
		return err
	}
	return s.dir.SaveDoneEpochs(epoch + 1)
}

// EpochLogger logs the metrics of every completed epoch.
type EpochLogger struct {
	logger *slog.Logger
	total  int
}

var _ network.Callback = (*EpochLogger)(nil)

// NewEpochLogger creates a logger for a run of total epochs.
func NewEpochLogger(logger *slog.Logger, total int) *EpochLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &EpochLogger{logger: logger, total: total}
}

// OnEpochEnd logs loss, accuracy and top-k accuracy.
func (l *EpochLogger) OnEpochEnd(_ context.Context, epoch int, _ *network.Model, metrics network.Metrics) error {
	l.logger.Info("epoch complete",
		"epoch", epoch+1,
		"of", l.total,
		"loss", metrics.Loss,
		"accuracy", metrics.Accuracy,
		"top10", metrics.Top10,
		"top30", metrics.Top30)
	return nil
}

// Callbacks returns the per-epoch callbacks for a run saved in dir: an
// EpochSaver followed by an EpochLogger.
func Callbacks(dir *Dir, resume bool, total int, logger *slog.Logger) []network.Callback {
	return []network.Callback{
		NewEpochSaver(dir, resume),
		NewEpochLogger(logger, total),
	}
}
