package meshmpi

import "github.com/sarchlab/akita/v4/sim"

// Dedicated tags (spec.md §4.1 "Messages use dedicated tags to avoid
// interference with application traffic"). Each collaborator that ships
// messages across the communicator owns one tag so that unrelated traffic
// streams never interleave on the same completion queue.
const (
	TagBridgeEdge        = iota + 1 // connector.bridge edge discovery (§4.1 step 3)
	TagGlobalizeBox                 // connector.findOverlaps head globalization (§4.1)
	TagRefineTransaction             // refine schedule transaction execution (§4.3)
	TagAllReduce                     // hierarchyops collective reductions (§4.5)
)

// Envelope is the message every point-to-point exchange in amrmesh travels
// in, in the teacher's tagged-message idiom (cgra.MoveMsg): it embeds
// sim.MsgMeta so it satisfies sim.Msg, and carries a Tag plus an opaque
// Payload.
type Envelope struct {
	sim.MsgMeta

	Tag              int
	SrcRank, DstRank Rank
	Payload          interface{}
}

// Meta returns the envelope's message metadata, satisfying sim.Msg.
func (e *Envelope) Meta() *sim.MsgMeta { return &e.MsgMeta }

// Clone returns a copy of the envelope with a fresh message id, satisfying
// sim.Msg's Clone requirement (akita re-delivers clones, never the
// original, when a message must be replayed to multiple destinations).
func (e *Envelope) Clone() sim.Msg {
	clone := *e
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}

// EnvelopeBuilder is a fluent builder for Envelope in the teacher's
// WithX(...).Build() idiom (cgra.MoveMsgBuilder).
type EnvelopeBuilder struct {
	sendTime         sim.VTimeInSec
	tag              int
	srcRank, dstRank Rank
	payload          interface{}
}

// WithSendTime sets the virtual send time of the envelope.
func (b EnvelopeBuilder) WithSendTime(t sim.VTimeInSec) EnvelopeBuilder {
	b.sendTime = t
	return b
}

// WithTag sets the dedicated traffic-class tag.
func (b EnvelopeBuilder) WithTag(tag int) EnvelopeBuilder {
	b.tag = tag
	return b
}

// WithSrc sets the sending rank.
func (b EnvelopeBuilder) WithSrc(r Rank) EnvelopeBuilder {
	b.srcRank = r
	return b
}

// WithDst sets the receiving rank.
func (b EnvelopeBuilder) WithDst(r Rank) EnvelopeBuilder {
	b.dstRank = r
	return b
}

// WithPayload sets the envelope's opaque payload.
func (b EnvelopeBuilder) WithPayload(p interface{}) EnvelopeBuilder {
	b.payload = p
	return b
}

// Build constructs the Envelope.
func (b EnvelopeBuilder) Build() *Envelope {
	return &Envelope{
		MsgMeta: sim.MsgMeta{
			ID:       sim.GetIDGenerator().Generate(),
			SendTime: b.sendTime,
		},
		Tag:     b.tag,
		SrcRank: b.srcRank,
		DstRank: b.dstRank,
		Payload: b.payload,
	}
}
