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


// Package local provides the in-process ai.Embedder backed by vectorize.Encoder.
//
// Texts are handed to langchaingo's embeddings.EmbedderImpl, which strips
// newlines and splits large inputs into batches; each batch is vectorized
// concurrently on an ants worker pool. Single texts take the same route as
// batches, so query and catalog embeddings are produced by identical code.
package local
