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


// Package ai defines the embedding abstraction used by cinevec.
//
// The importer and the recommender depend on the Embedder interface rather
// than on a concrete pipeline, so tests can substitute deterministic doubles.
//
// # Implementation Packages
//
//   - ai/local: Production implementation running the deterministic
//     vectorize.Encoder behind langchaingo's batching embedder, with
//     in-batch parallelism on an ants worker pool
//   - ai/mock: Test double with injectable behavior
//
// # Constructor Return Type Pattern
//
// local.NewEmbedder returns the ai.Embedder interface. Test utility
// constructors (mock.NewMockEmbedder) return concrete types so tests can
// inject behavior and assert on call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithPoolSize(4))
//	embedder, err := local.NewEmbedder(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vec, err := embedder.EmbedText(ctx, "Movie Sci-Fi Japan")
package ai
