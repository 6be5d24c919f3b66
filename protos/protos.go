// Package protos holds the Cap'n Proto wire structs for persisted
// bootstrap runs: one struct per stored replicate result and one for
// the run metadata. Term names and estimates travel as parallel lists.
package protos

import (
	"math"

	capnp "zombiezen.com/go/capnproto2"
)

type ProtoReplicateResult struct{ capnp.Struct }

func NewProtoReplicateResult(s *capnp.Segment) (ProtoReplicateResult, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 16, PointerCount: 3})
	return ProtoReplicateResult{st}, err
}

func NewRootProtoReplicateResult(s *capnp.Segment) (ProtoReplicateResult, error) {
	st, err := capnp.NewRootStruct(s, capnp.ObjectSize{DataSize: 16, PointerCount: 3})
	return ProtoReplicateResult{st}, err
}

func ReadRootProtoReplicateResult(msg *capnp.Message) (ProtoReplicateResult, error) {
	root, err := msg.RootPtr()
	return ProtoReplicateResult{root.Struct()}, err
}

func (s ProtoReplicateResult) Id() int64 {
	return int64(s.Struct.Uint64(0))
}

func (s ProtoReplicateResult) SetId(v int64) {
	s.Struct.SetUint64(0, uint64(v))
}

func (s ProtoReplicateResult) Apparent() bool {
	return s.Struct.Bit(64)
}

func (s ProtoReplicateResult) SetApparent(v bool) {
	s.Struct.SetBit(64, v)
}

func (s ProtoReplicateResult) Terms() (capnp.TextList, error) {
	p, err := s.Struct.Ptr(0)
	return capnp.TextList{List: p.List()}, err
}

func (s ProtoReplicateResult) NewTerms(n int32) (capnp.TextList, error) {
	l, err := capnp.NewTextList(s.Struct.Segment(), n)
	if err != nil {
		return capnp.TextList{}, err
	}
	err = s.Struct.SetPtr(0, l.List.ToPtr())
	return l, err
}

func (s ProtoReplicateResult) Estimates() (capnp.Float64List, error) {
	p, err := s.Struct.Ptr(1)
	return capnp.Float64List{List: p.List()}, err
}

func (s ProtoReplicateResult) NewEstimates(n int32) (capnp.Float64List, error) {
	l, err := capnp.NewFloat64List(s.Struct.Segment(), n)
	if err != nil {
		return capnp.Float64List{}, err
	}
	err = s.Struct.SetPtr(1, l.List.ToPtr())
	return l, err
}

func (s ProtoReplicateResult) StdErrors() (capnp.Float64List, error) {
	p, err := s.Struct.Ptr(2)
	return capnp.Float64List{List: p.List()}, err
}

func (s ProtoReplicateResult) NewStdErrors(n int32) (capnp.Float64List, error) {
	l, err := capnp.NewFloat64List(s.Struct.Segment(), n)
	if err != nil {
		return capnp.Float64List{}, err
	}
	err = s.Struct.SetPtr(2, l.List.ToPtr())
	return l, err
}

type ProtoRunMeta struct{ capnp.Struct }

func NewProtoRunMeta(s *capnp.Segment) (ProtoRunMeta, error) {
	st, err := capnp.NewStruct(s, capnp.ObjectSize{DataSize: 40, PointerCount: 1})
	return ProtoRunMeta{st}, err
}

func NewRootProtoRunMeta(s *capnp.Segment) (ProtoRunMeta, error) {
	st, err := capnp.NewRootStruct(s, capnp.ObjectSize{DataSize: 40, PointerCount: 1})
	return ProtoRunMeta{st}, err
}

func ReadRootProtoRunMeta(msg *capnp.Message) (ProtoRunMeta, error) {
	root, err := msg.RootPtr()
	return ProtoRunMeta{root.Struct()}, err
}

func (s ProtoRunMeta) Seed() int64 {
	return int64(s.Struct.Uint64(0))
}

func (s ProtoRunMeta) SetSeed(v int64) {
	s.Struct.SetUint64(0, uint64(v))
}

func (s ProtoRunMeta) Times() int64 {
	return int64(s.Struct.Uint64(8))
}

func (s ProtoRunMeta) SetTimes(v int64) {
	s.Struct.SetUint64(8, uint64(v))
}

func (s ProtoRunMeta) Alpha() float64 {
	return math.Float64frombits(s.Struct.Uint64(16))
}

func (s ProtoRunMeta) SetAlpha(v float64) {
	s.Struct.SetUint64(16, math.Float64bits(v))
}

func (s ProtoRunMeta) Apparent() bool {
	return s.Struct.Bit(192)
}

func (s ProtoRunMeta) SetApparent(v bool) {
	s.Struct.SetBit(192, v)
}

func (s ProtoRunMeta) Rows() int64 {
	return int64(s.Struct.Uint64(32))
}

func (s ProtoRunMeta) SetRows(v int64) {
	s.Struct.SetUint64(32, uint64(v))
}

func (s ProtoRunMeta) Label() (string, error) {
	p, err := s.Struct.Ptr(0)
	return p.Text(), err
}

func (s ProtoRunMeta) SetLabel(v string) error {
	return s.Struct.SetText(0, v)
}
