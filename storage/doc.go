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


// Package storage provides the storage abstraction layer for medseq.
//
// This package defines the repository interface that decouples the corpus store
// from the training and exploration pipelines, the binary codecs shared by the
// store and by on-disk artifacts, and the versioned artifact envelope.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the storage interface:
//
//	repo, err := badger.NewEncounterRepository(backend) // storage.EncounterRepository
//
// # Artifacts
//
// Fitted transformers, hyperparameters, counters and model weights are written
// as sealed artifacts:
//
//	magic | kind | format version | blake2b-256(payload) | payload
//
// OpenArtifact refuses a payload whose kind or version does not match what the
// caller expects (ErrIncompatibleArtifact) or whose checksum does not match
// (ErrCorruptArtifact), so a reload never silently decodes bytes written by an
// incompatible writer.
//
// # Thread Safety
//
// Repository implementations must be safe for concurrent use.
package storage
