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


// Package vectorize turns catalog text into fixed-length unit-norm embeddings.
//
// The chain is strictly deterministic and identical for catalog records and
// for queries:
//
//	NormalizeText -> Vectorize -> ScaleToMax -> Transform.Apply -> NormalizeVector
//
// Vectorize uses positional and bigram hashing of rune code points into a
// fixed number of bins. The Transform is either a fixed dense network whose
// weights are derived from a seed (Network) or the identity (Identity).
// An Encoder binds one choice of width and transform; it is immutable and safe
// for concurrent use, so a single instance is built per run and passed
// explicitly to everything that embeds text.
//
// Vectors produced by different encoders are not comparable. Encoder.Fingerprint
// identifies the configuration so stored embeddings can be checked against it.
package vectorize
