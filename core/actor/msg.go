package actor

import "github.com/codewandler/gensrv-go/internal/reflector"

type envelopeKind uint8

const (
	kindCall envelopeKind = iota
	kindCast
)

func (k envelopeKind) String() string {
	if k == kindCall {
		return "call"
	}
	return "cast"
}

type reply struct {
	result any
	err    error
}

// envelope is the unit flowing through a mailbox. A call carries a private
// reply channel with capacity 1, so the loop never blocks on delivery even
// when the caller has already given up.
type envelope struct {
	kind  envelopeKind
	msg   any
	reply chan reply
}

func (e *envelope) respond(result any, err error) {
	if e.reply == nil {
		return
	}
	select {
	case e.reply <- reply{result: result, err: err}:
	default:
	}
}

type msgTyper interface{ MsgType() string }

func msgTypeOf(x any) string {
	if mt, ok := x.(msgTyper); ok {
		return mt.MsgType()
	}
	if x == nil {
		return "<nil>"
	}
	return reflector.TypeInfoOf(x).Short
}
