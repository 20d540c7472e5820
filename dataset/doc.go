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


// Package dataset turns stored encounters into supervised example lists.
//
// Every order of an encounter yields one example whose target is the ordered
// drug and whose inputs are the drugs ordered before it, the active profile at
// order time and the ordering department. A Loader can restrict loading to a
// fixed set of encounters, which is how sampled training runs are reproduced
// on resume.
package dataset
