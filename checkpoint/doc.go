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


// Package checkpoint stores the artifacts of a training run in a directory.
//
// The directory layout is fixed:
//
//	hp.mus                       hyperparameters, written once
//	sampled_encs.mus             optional encounter restriction, written once
//	w2v.mus                      fitted word2vec model, written once
//	pse.mus                      fitted profile state encoder, written once
//	le.mus                       fitted label encoder, written once
//	done_epochs.mus              completed epoch counter, rewritten every epoch
//	partially_trained_model.mus  model weights, rewritten every epoch
//	model.mus                    final model weights
//
// Every file is a sealed artifact (see package storage). Files are replaced
// atomically and nothing in a checkpoint directory is ever deleted.
package checkpoint
