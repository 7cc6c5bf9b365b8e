package vectorize

import (
	"fmt"

	"github.com/poiesic/cinevec/core"
)

// Encoder is the complete text-to-embedding chain. It holds no mutable state.
type Encoder struct {
	width       int
	transform   Transform
	fingerprint string
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithInputWidth sets the number of feature bins. Default is DefaultInputWidth.
func WithInputWidth(width int) EncoderOption {
	return func(e *Encoder) {
		e.width = width
	}
}

// WithTransform sets the embedding transform. Default is NewNetwork(DefaultSeed).
func WithTransform(t Transform) EncoderOption {
	return func(e *Encoder) {
		e.transform = t
	}
}

// NewEncoder creates an Encoder. The transform's input width must equal the
// vectorizer width.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{width: DefaultInputWidth}
	for _, opt := range opts {
		opt(e)
	}
	if e.width <= 0 {
		return nil, fmt.Errorf("%w: input width %d", ErrInvalidShape, e.width)
	}
	if e.transform == nil {
		e.transform = NewNetwork(DefaultSeed)
	}
	if e.transform.InputWidth() != e.width {
		return nil, fmt.Errorf("%w: %d != %d", ErrWidthMismatch, e.transform.InputWidth(), e.width)
	}

	desc := fmt.Sprintf("bigram:%d/%s", e.width, e.transform.Describe())
	e.fingerprint = fmt.Sprintf("%016x", uint64(core.IDFromContent(desc)))
	return e, nil
}

// Encode returns the unit-norm embedding of text. Text that normalizes to
// nothing yields the zero vector of Dimension length.
func (e *Encoder) Encode(text string) []float32 {
	features := ScaleToMax(Vectorize(NormalizeText(text), e.width))
	if IsZero(features) {
		return make([]float32, e.Dimension())
	}
	return NormalizeVector(e.transform.Apply(features))
}

// EncodeRecord embeds a catalog record.
func (e *Encoder) EncodeRecord(r *core.SourceRecord) []float32 {
	return e.Encode(RecordText(r))
}

// EncodeCriteria embeds the query text built from c.
func (e *Encoder) EncodeCriteria(c core.Criteria) []float32 {
	return e.Encode(QueryText(c))
}

// Dimension is the embedding width.
func (e *Encoder) Dimension() int {
	return e.transform.OutputWidth()
}

// Fingerprint identifies the vectorizer width and transform parameters.
func (e *Encoder) Fingerprint() string {
	return e.fingerprint
}
