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


// Package embedding trains word2vec vectors over drug-order sequences and
// evaluates them on analogy questions.
//
// Training follows the classic word2vec recipe: a frequency sorted vocabulary
// with a minimum count, optional frequent-token subsampling, CBOW or
// skip-gram context prediction, and either hierarchical softmax over a
// Huffman tree or negative sampling from the unigram distribution raised to
// the 3/4 power. The learning rate decays linearly over all epochs.
//
// A trained Model implements langchaingo's embeddings.EmbedderClient, so a
// sequence of drugs can be embedded the same way as any other text.
package embedding
