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


// Package search ranks stored embeddings against a query.
//
// The Ranker scores every stored embedding passing the filters by the dot
// product with the query vector (both sides are unit-norm, so this is cosine
// similarity), sorts descending with ties kept in show_id order, and returns
// the top K with scores rounded to the hundredth and clamped to [0,1].
//
// The Recommender builds the query vector from user criteria through the same
// embedder used for training, so query and catalog vectors are comparable.
package search
