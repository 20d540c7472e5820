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


package embedding

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// AnalogyQuestion asks: A is to B as C is to Expected.
type AnalogyQuestion struct {
	A, B, C, Expected string
}

// AnalogySection is a named group of questions.
type AnalogySection struct {
	Name      string
	Questions []AnalogyQuestion
}

// ParseAnalogies reads questions in the word2vec questions-words format:
// ": name" lines open a section and every other non-blank line holds four
// whitespace separated tokens. Lines starting with "#" are ignored.
func ParseAnalogies(r io.Reader) ([]AnalogySection, error) {
	var sections []AnalogySection
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, ":") {
			sections = append(sections, AnalogySection{Name: strings.TrimSpace(line[1:])})
			continue
		}
		if len(sections) == 0 {
			return nil, fmt.Errorf("%w: line %d: question before first section header", ErrMalformedAnalogy, lineNo)
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: line %d: want 4 tokens, got %d", ErrMalformedAnalogy, lineNo, len(fields))
		}
		cur := &sections[len(sections)-1]
		cur.Questions = append(cur.Questions, AnalogyQuestion{A: fields[0], B: fields[1], C: fields[2], Expected: fields[3]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}

// SectionScore tallies one section.
type SectionScore struct {
	Name      string
	Correct   int
	Incorrect int
}

// AnalogyResult tallies an evaluation. Questions with an out-of-vocabulary
// token are skipped and do not count as attempted.
type AnalogyResult struct {
	Sections  []SectionScore
	Correct   int
	Attempted int
	Skipped   int
}

// Accuracy returns Correct / Attempted, or zero when nothing was attempted.
func (r AnalogyResult) Accuracy() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Attempted)
}

// EvaluateAnalogies answers every question with the nearest vocabulary word
// to B - A + C, excluding the three query words.
func (m *Model) EvaluateAnalogies(sections []AnalogySection) AnalogyResult {
	var res AnalogyResult
	for _, sec := range sections {
		score := SectionScore{Name: sec.Name}
		for _, q := range sec.Questions {
			if !m.Contains(q.A) || !m.Contains(q.B) || !m.Contains(q.C) || !m.Contains(q.Expected) {
				res.Skipped++
				continue
			}
			best := m.MostSimilar([]string{q.B, q.C}, []string{q.A}, 1)
			if len(best) == 1 && best[0].Word == q.Expected {
				score.Correct++
			} else {
				score.Incorrect++
			}
		}
		res.Correct += score.Correct
		res.Attempted += score.Correct + score.Incorrect
		res.Sections = append(res.Sections, score)
	}
	return res
}

// AnalogyAccuracy evaluates sections and returns the accuracy, failing with
// ErrNoAnalogies when no question could be attempted.
func (m *Model) AnalogyAccuracy(sections []AnalogySection) (float64, error) {
	res := m.EvaluateAnalogies(sections)
	if res.Attempted == 0 {
		return 0, fmt.Errorf("%w: %d skipped", ErrNoAnalogies, res.Skipped)
	}
	return res.Accuracy(), nil
}
