package storage

import (
	capnp "zombiezen.com/go/capnproto2"

	"bootci/estimator"
	"bootci/protos"
)

// RunMeta records how a persisted run was produced, enough to
// recompute percentile and studentized intervals from the stored
// results alone.
type RunMeta struct {
	Seed            int64
	Times           int64
	Alpha           float64
	IncludeApparent bool
	Rows            int64
	Label           string
}

func ResultToBytes(result *estimator.ReplicateResult) ([]byte, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, err
	}
	resultProto, err := protos.NewRootProtoReplicateResult(seg)
	if err != nil {
		return nil, err
	}

	resultProto.SetId(result.ReplicateID)
	resultProto.SetApparent(result.Apparent)

	n := int32(len(result.Terms))
	termsProto, err := resultProto.NewTerms(n)
	if err != nil {
		return nil, err
	}
	estimatesProto, err := resultProto.NewEstimates(n)
	if err != nil {
		return nil, err
	}
	stdErrorsProto, err := resultProto.NewStdErrors(n)
	if err != nil {
		return nil, err
	}

	for i, te := range result.Terms {
		if err := termsProto.Set(i, te.Term); err != nil {
			return nil, err
		}
		estimatesProto.Set(i, te.Estimate)
		stdErrorsProto.Set(i, te.StdError)
	}

	return msg.Marshal()
}

func BytesToResult(buf []byte) (*estimator.ReplicateResult, error) {
	msg, err := capnp.Unmarshal(buf)
	if err != nil {
		return nil, err
	}
	resultProto, err := protos.ReadRootProtoReplicateResult(msg)
	if err != nil {
		return nil, err
	}

	termsProto, err := resultProto.Terms()
	if err != nil {
		return nil, err
	}
	estimatesProto, err := resultProto.Estimates()
	if err != nil {
		return nil, err
	}
	stdErrorsProto, err := resultProto.StdErrors()
	if err != nil {
		return nil, err
	}

	terms := make([]estimator.TermEstimate, termsProto.Len())
	for i := range terms {
		term, err := termsProto.At(i)
		if err != nil {
			return nil, err
		}
		terms[i] = estimator.TermEstimate{
			Term:     term,
			Estimate: estimatesProto.At(i),
			StdError: stdErrorsProto.At(i),
		}
	}

	return &estimator.ReplicateResult{
		ReplicateID: resultProto.Id(),
		Apparent:    resultProto.Apparent(),
		Terms:       terms,
	}, nil
}

func MetaToBytes(meta *RunMeta) ([]byte, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, err
	}
	metaProto, err := protos.NewRootProtoRunMeta(seg)
	if err != nil {
		return nil, err
	}

	metaProto.SetSeed(meta.Seed)
	metaProto.SetTimes(meta.Times)
	metaProto.SetAlpha(meta.Alpha)
	metaProto.SetApparent(meta.IncludeApparent)
	metaProto.SetRows(meta.Rows)
	if err := metaProto.SetLabel(meta.Label); err != nil {
		return nil, err
	}

	return msg.Marshal()
}

func BytesToMeta(buf []byte) (*RunMeta, error) {
	msg, err := capnp.Unmarshal(buf)
	if err != nil {
		return nil, err
	}
	metaProto, err := protos.ReadRootProtoRunMeta(msg)
	if err != nil {
		return nil, err
	}
	label, err := metaProto.Label()
	if err != nil {
		return nil, err
	}

	return &RunMeta{
		Seed:            metaProto.Seed(),
		Times:           metaProto.Times(),
		Alpha:           metaProto.Alpha(),
		IncludeApparent: metaProto.Apparent(),
		Rows:            metaProto.Rows(),
		Label:           label,
	}, nil
}
