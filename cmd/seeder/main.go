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


package main

import (
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"os"
	"slices"

	"github.com/poiesic/medseq"
	"github.com/poiesic/medseq/core"
)

// regimens groups drugs that tend to be ordered together in a department.
var regimens = map[string][]string{
	"cardiology":    {"aspirin", "clopidogrel", "atorvastatin", "metoprolol", "heparin", "nitroglycerin", "furosemide"},
	"icu":           {"propofol", "fentanyl", "norepinephrine", "vancomycin", "piperacillin", "pantoprazole", "insulin"},
	"oncology":      {"ondansetron", "dexamethasone", "cisplatin", "filgrastim", "morphine", "allopurinol"},
	"surgery":       {"cefazolin", "ketorolac", "hydromorphone", "enoxaparin", "docusate", "acetaminophen"},
	"obstetrics":    {"oxytocin", "ibuprofen", "acetaminophen", "docusate", "rho-d-immune-globulin"},
	"psychiatry":    {"olanzapine", "lorazepam", "sertraline", "quetiapine", "nicotine"},
	"nephrology":    {"sevelamer", "epoetin", "calcitriol", "furosemide", "sodium-bicarbonate"},
	"infectious":    {"vancomycin", "ceftriaxone", "metronidazole", "fluconazole", "acyclovir"},
	"endocrinology": {"insulin", "levothyroxine", "metformin", "hydrocortisone", "glucagon"},
}

var (
	dbPath    = flag.String("db", "./medseq_db", "database directory")
	count     = flag.Int("n", 2000, "number of encounters to generate")
	minOrders = flag.Int("min-orders", 3, "minimum orders per encounter")
	maxOrders = flag.Int("max-orders", 15, "maximum orders per encounter")
	seed      = flag.Uint64("seed", 1, "random seed")
	batchSize = flag.Int("batch", 500, "encounters written per batch")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// synthetic returns an iterator over n generated encounters. Each stays
// in one department and mostly orders from its regimen, with occasional
// drugs from elsewhere.
func synthetic(n, minLen, maxLen int, rng *rand.Rand) iter.Seq[*core.Encounter] {
	departments := make([]string, 0, len(regimens))
	var all []string
	for dept, drugs := range regimens {
		departments = append(departments, dept)
		all = append(all, drugs...)
	}
	// map order is random; fix it so the seed fully determines the output
	slices.Sort(departments)
	slices.Sort(all)

	return func(yield func(*core.Encounter) bool) {
		for i := range n {
			dept := departments[rng.IntN(len(departments))]
			regimen := regimens[dept]
			length := minLen + rng.IntN(maxLen-minLen+1)

			enc := &core.Encounter{Id: core.EncounterID(fmt.Sprintf("syn-%06d", i))}
			var active []string
			for range length {
				drug := regimen[rng.IntN(len(regimen))]
				if rng.Float64() < 0.1 {
					drug = all[rng.IntN(len(all))]
				}
				enc.Orders = append(enc.Orders, core.Order{
					Drug:       drug,
					Department: dept,
					ActiveMeds: append([]string(nil), active...),
				})
				active = append(active, drug)
				if len(active) > 5 {
					active = active[1:]
				}
			}
			if !yield(enc) {
				return
			}
		}
	}
}

// seedBatched writes encounters from source in batches.
func seedBatched(ctx context.Context, db *medseq.Database, source iter.Seq[*core.Encounter], size int) (int, error) {
	repo := db.EncounterRepository()
	batch := make([]*core.Encounter, 0, size)
	written := 0

	for enc := range source {
		batch = append(batch, enc)
		if len(batch) == size {
			if err := repo.AddEncounters(ctx, batch...); err != nil {
				return written, err
			}
			written += len(batch)
			batch = batch[:0]
		}
	}

	// Process any remaining encounters
	if len(batch) > 0 {
		if err := repo.AddEncounters(ctx, batch...); err != nil {
			return written, err
		}
		written += len(batch)
	}

	return written, nil
}

func main() {
	if *minOrders < 1 || *maxOrders < *minOrders || *batchSize < 1 {
		slog.Error("invalid flags", "min-orders", *minOrders, "max-orders", *maxOrders, "batch", *batchSize)
		os.Exit(2)
	}

	db, err := medseq.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	rng := rand.New(rand.NewPCG(*seed, *seed))
	source := synthetic(*count, *minOrders, *maxOrders, rng)

	written, err := seedBatched(context.Background(), db, source, *batchSize)
	if err != nil {
		panic(err)
	}
	slog.Info("seeded encounters", "count", written, "db", *dbPath)
}
