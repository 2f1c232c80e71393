package dns

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Reason says why a check found nothing.
type Reason int

const (
	// ReasonNone is the zero value, used by present outcomes.
	ReasonNone Reason = iota

	// NoRecord means the name or the record type does not exist.
	NoRecord

	// NoNameserver means no nameserver produced a usable answer.
	NoNameserver

	// Transient covers timeouts, transport failures and malformed answers.
	Transient
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case NoRecord:
		return "no_record"
	case NoNameserver:
		return "no_nameserver"
	case Transient:
		return "transient"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Classify maps a lookup error onto a Reason.
func Classify(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case IsNotFound(err):
		return NoRecord
	case IsNoNameserver(err):
		return NoNameserver
	default:
		return Transient
	}
}

// Outcome is the result of a single check: either Present with a detail
// value, or absent with a Reason and a human-readable message.
type Outcome[T any] struct {
	Present bool
	Detail  T
	Reason  Reason
	Message string
}

// Present returns a present outcome carrying detail.
func Present[T any](detail T) Outcome[T] {
	return Outcome[T]{Present: true, Detail: detail}
}

// Absent returns an absent outcome.
func Absent[T any](reason Reason, message string) Outcome[T] {
	return Outcome[T]{Reason: reason, Message: message}
}

// AbsentFromError classifies err. notFound and noNameserver replace the
// error text for those reasons; transient outcomes keep the error text.
func AbsentFromError[T any](err error, notFound, noNameserver string) Outcome[T] {
	reason := Classify(err)
	switch reason {
	case NoRecord:
		return Absent[T](reason, notFound)
	case NoNameserver:
		return Absent[T](reason, noNameserver)
	default:
		return Absent[T](Transient, err.Error())
	}
}

// absentShaper is implemented by details that keep some fields, with empty
// values, in absent outcomes.
type absentShaper interface {
	absentFields() map[string]json.RawMessage
}

// MarshalJSON flattens the outcome into {"valid": ..., <detail fields>} or
// {"valid": false, "reason": ..., "error": ...}.
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	fields := map[string]json.RawMessage{}

	if o.Present {
		b, err := json.Marshal(o.Detail)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, &fields); err != nil {
			// Detail is not an object; nest it.
			fields = map[string]json.RawMessage{"detail": b}
		}
		if fields == nil {
			fields = map[string]json.RawMessage{}
		}
		fields["valid"] = json.RawMessage("true")
		return json.Marshal(fields)
	}

	if s, ok := any(o.Detail).(absentShaper); ok {
		maps.Copy(fields, s.absentFields())
	}
	fields["valid"] = json.RawMessage("false")
	reason, _ := json.Marshal(o.Reason.String())
	fields["reason"] = reason
	msg, _ := json.Marshal(o.Message)
	fields["error"] = msg
	return json.Marshal(fields)
}
