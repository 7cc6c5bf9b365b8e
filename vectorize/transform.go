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


package vectorize

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// DefaultSeed keys the weight stream of the default network.
const DefaultSeed = "cinevec"

// DefaultLayerWidths is the shape of the default network: 256 -> 512 -> 256 -> 128.
var DefaultLayerWidths = []int{256, 512, 256, 128}

// Transform maps a feature vector to an embedding. Implementations are
// immutable and safe for concurrent use.
type Transform interface {
	// InputWidth is the length Apply expects.
	InputWidth() int
	// OutputWidth is the length Apply returns.
	OutputWidth() int
	// Apply returns a new vector; x is not modified.
	Apply(x []float32) []float32
	// Describe identifies the transform and all of its parameters.
	Describe() string
}

// Identity passes feature vectors through unchanged.
type Identity struct {
	width int
}

var _ Transform = (*Identity)(nil)

// NewIdentity creates an identity transform of the given width.
func NewIdentity(width int) *Identity {
	return &Identity{width: width}
}

func (t *Identity) InputWidth() int  { return t.width }
func (t *Identity) OutputWidth() int { return t.width }

func (t *Identity) Apply(x []float32) []float32 {
	out := make([]float32, t.width)
	copy(out, x)
	return out
}

func (t *Identity) Describe() string {
	return "identity:" + strconv.Itoa(t.width)
}

type activation int

const (
	relu activation = iota
	sigmoid
)

func (a activation) apply(x float64) float64 {
	switch a {
	case relu:
		if x < 0 {
			return 0
		}
		return x
	default:
		return 1 / (1 + math.Exp(-x))
	}
}

// dense is one affine projection followed by a nonlinearity.
// weights is row-major, out rows of in columns.
type dense struct {
	in, out    int
	weights    []float32
	bias       []float32
	activation activation
}

func (d *dense) forward(x []float32) []float32 {
	y := make([]float32, d.out)
	for o := 0; o < d.out; o++ {
		row := d.weights[o*d.in : (o+1)*d.in]
		sum := float64(d.bias[o])
		for i, w := range row {
			sum += float64(w) * float64(x[i])
		}
		y[o] = float32(d.activation.apply(sum))
	}
	return y
}

// Network is a fixed stack of dense layers. Hidden layers use ReLU and the
// last layer uses a logistic sigmoid, so outputs lie in (0,1).
//
// Weights are Glorot-uniform samples drawn from a BLAKE2b counter stream
// keyed by the seed and biases are zero, so two networks built from the same
// seed and widths are identical on every platform. Nothing is ever trained.
type Network struct {
	seed   string
	widths []int
	layers []dense
}

var _ Transform = (*Network)(nil)

// NewNetwork builds the default 256-512-256-128 network for seed.
func NewNetwork(seed string) *Network {
	n, _ := NewNetworkWithWidths(seed, DefaultLayerWidths)
	return n
}

// NewNetworkWithWidths builds a network whose layer sizes are widths[0] -> ... -> widths[len-1].
func NewNetworkWithWidths(seed string, widths []int) (*Network, error) {
	if len(widths) < 2 {
		return nil, fmt.Errorf("%w: need at least two widths, got %d", ErrInvalidShape, len(widths))
	}
	for _, w := range widths {
		if w <= 0 {
			return nil, fmt.Errorf("%w: width %d", ErrInvalidShape, w)
		}
	}

	n := &Network{
		seed:   seed,
		widths: append([]int(nil), widths...),
		layers: make([]dense, 0, len(widths)-1),
	}
	for l := 0; l+1 < len(widths); l++ {
		act := relu
		if l+2 == len(widths) {
			act = sigmoid
		}
		n.layers = append(n.layers, newDense(seed, l, widths[l], widths[l+1], act))
	}
	return n, nil
}

func newDense(seed string, index, in, out int, act activation) dense {
	limit := math.Sqrt(6.0 / float64(in+out))
	stream := newWeightStream(seed, index)
	weights := make([]float32, in*out)
	for i := range weights {
		weights[i] = float32((2*stream.next() - 1) * limit)
	}
	return dense{
		in:         in,
		out:        out,
		weights:    weights,
		bias:       make([]float32, out),
		activation: act,
	}
}

func (n *Network) InputWidth() int  { return n.widths[0] }
func (n *Network) OutputWidth() int { return n.widths[len(n.widths)-1] }

// Apply runs x through every layer. Inputs shorter than InputWidth are zero padded
// and longer inputs are truncated.
func (n *Network) Apply(x []float32) []float32 {
	h := make([]float32, n.InputWidth())
	copy(h, x)
	for i := range n.layers {
		h = n.layers[i].forward(h)
	}
	return h
}

func (n *Network) Describe() string {
	parts := make([]string, len(n.widths))
	for i, w := range n.widths {
		parts[i] = strconv.Itoa(w)
	}
	return "network:" + n.seed + ":" + strings.Join(parts, "-")
}

// weightStream yields uniform values in [0,1) from BLAKE2b-512 digests of
// (seed, layer, block counter).
type weightStream struct {
	seed    string
	layer   uint32
	counter uint64
	buf     []byte
}

func newWeightStream(seed string, layer int) *weightStream {
	return &weightStream{seed: seed, layer: uint32(layer)}
}

func (s *weightStream) next() float64 {
	if len(s.buf) < 4 {
		s.refill()
	}
	u := binary.LittleEndian.Uint32(s.buf)
	s.buf = s.buf[4:]
	return float64(u) / (1 << 32)
}

func (s *weightStream) refill() {
	h, _ := blake2b.New(64, nil)
	h.Write([]byte(s.seed))
	var block [12]byte
	binary.LittleEndian.PutUint32(block[0:4], s.layer)
	binary.LittleEndian.PutUint64(block[4:12], s.counter)
	h.Write(block[:])
	s.buf = h.Sum(nil)
	s.counter++
}
