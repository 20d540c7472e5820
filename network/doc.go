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


// Package network implements the next-drug classifier: a single layer Elman
// recurrent network over the embedded order history whose final hidden state
// is concatenated with the profile state features and fed to a softmax
// output layer.
//
// Training uses full backpropagation through time with the Adam optimizer.
// The optimizer state is part of the model, so a model saved after an epoch
// and loaded later continues exactly where it stopped.
//
// Fit follows the usual epoch-range convention: it trains epochs
// [InitialEpoch, Epochs) and reports each to callbacks by its absolute index.
package network
