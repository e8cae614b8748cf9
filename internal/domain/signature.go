package domain

import "time"

// SignatureState tags the two render paths of the client signature block.
type SignatureState int

const (
	SignatureUnsigned SignatureState = iota
	SignatureSigned
)

// Signature is the client signature as a tagged value: either unsigned, or
// signed with an image and a date. The two states drive the only conditional
// branch of the renderer with observable output differences, so they are kept
// explicit rather than inferred from optional fields.
type Signature struct {
	state SignatureState
	image []byte
	date  time.Time
}

// UnsignedSignature is the blank-line signature block.
func UnsignedSignature() Signature {
	return Signature{state: SignatureUnsigned}
}

// SignedSignature embeds a PNG signature image and the signing date.
func SignedSignature(image []byte, date time.Time) Signature {
	return Signature{state: SignatureSigned, image: image, date: date}
}

func (s Signature) State() SignatureState { return s.state }

func (s Signature) IsSigned() bool { return s.state == SignatureSigned }

// Image returns the PNG bytes of a signed signature, nil otherwise.
func (s Signature) Image() []byte { return s.image }

// Date returns the signing date of a signed signature.
func (s Signature) Date() time.Time { return s.date }
