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


// Package training starts and resumes next-drug model training runs.
//
// A run lives in a checkpoint directory. Trainer creates the directory
// contents: hyperparameters, the optional encounter restriction, the fitted
// word2vec model and encoders, an epoch counter and the model. Resumer reads
// them back, never refitting the encoders, and trains only the epochs the
// counter says are still missing. Both persist the model and counter after
// every epoch and write the final weights to a separate file when done.
package training
