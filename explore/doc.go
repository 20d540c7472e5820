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


// Package explore searches word2vec and clustering hyperparameters for a
// medication corpus and reports the best embedding and its clusters.
//
// Run performs four phases. It grid-searches word2vec settings scored by
// analogy accuracy. It refits the best setting on the whole corpus and
// projects the normalized vectors to three dimensions. It grid-searches
// the Ward cluster count scored by cosine silhouette. Finally it clusters
// the projection with the best count. Tables are written as CSV into the
// output directory and figures go to a report.Sink.
package explore
