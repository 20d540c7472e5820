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


package gridsearch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Grids holds the two grids explored by the embedding search.
type Grids struct {
	Word2Vec   Grid `yaml:"word2vec"`
	Clustering Grid `yaml:"clustering"`
}

// DefaultGrids returns the built-in search space.
func DefaultGrids() *Grids {
	return &Grids{
		Word2Vec: Grid{
			"alpha":     {0.01, 0.013},
			"iter":      {32, 64},
			"size":      {64, 256},
			"hs":        {0, 1},
			"sg":        {0, 1},
			"min_count": {5},
		},
		Clustering: Grid{
			"n_clusters": {5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		},
	}
}

// Validate checks that both grids are non-empty.
func (g *Grids) Validate() error {
	if g.Word2Vec.Size() == 0 {
		return fmt.Errorf("word2vec: %w", ErrEmptyGrid)
	}
	if g.Clustering.Size() == 0 {
		return fmt.Errorf("clustering: %w", ErrEmptyGrid)
	}
	return nil
}

// LoadGrids reads grids from a YAML file. A grid absent from the file keeps
// its default.
func LoadGrids(path string) (*Grids, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	grids := DefaultGrids()
	var loaded Grids
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if loaded.Word2Vec != nil {
		grids.Word2Vec = loaded.Word2Vec
	}
	if loaded.Clustering != nil {
		grids.Clustering = loaded.Clustering
	}
	if err := grids.Validate(); err != nil {
		return nil, err
	}
	return grids, nil
}
