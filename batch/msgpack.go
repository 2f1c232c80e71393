package batch

import (
	"io"
	"slices"
	"time"

	"github.com/tinylib/msgp/msgp"

	"github.com/synqronlabs/mailcheck"
)

var _ msgp.Marshaler = Report{}

// MarshalMsg appends the MessagePack encoding of the report to b. Field
// names match the JSON encoding; times are RFC 3339 strings.
func (r Report) MarshalMsg(b []byte) ([]byte, error) {
	b = msgp.AppendMapHeader(b, 5)
	b = msgp.AppendString(b, "id")
	b = msgp.AppendString(b, r.ID)
	b = msgp.AppendString(b, "started_at")
	b = msgp.AppendString(b, r.StartedAt.Format(time.RFC3339Nano))
	b = msgp.AppendString(b, "finished_at")
	b = msgp.AppendString(b, r.FinishedAt.Format(time.RFC3339Nano))

	b = msgp.AppendString(b, "summary")
	b = appendSummary(b, r.Summary)

	b = msgp.AppendString(b, "results")
	b = msgp.AppendArrayHeader(b, uint32(len(r.Results)))
	for _, v := range r.Results {
		b = appendVerdict(b, v)
	}
	return b, nil
}

// WriteMsg writes the MessagePack encoding of the report to w.
func (r Report) WriteMsg(w io.Writer) error {
	b, err := r.MarshalMsg(nil)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func appendSummary(b []byte, s Summary) []byte {
	b = msgp.AppendMapHeader(b, 5)
	b = msgp.AppendString(b, "total")
	b = msgp.AppendInt(b, s.Total)
	b = msgp.AppendString(b, "valid")
	b = msgp.AppendInt(b, s.Valid)
	b = msgp.AppendString(b, "invalid")
	b = msgp.AppendInt(b, s.Invalid)
	b = msgp.AppendString(b, "risky")
	b = msgp.AppendInt(b, s.Risky)
	b = msgp.AppendString(b, "disposable")
	b = msgp.AppendInt(b, s.Disposable)
	return b
}

func appendVerdict(b []byte, v mailcheck.AddressVerdict) []byte {
	fields := uint32(3)
	if v.Reason != "" {
		fields++
	}
	if len(v.MXRecords) > 0 {
		fields++
	}

	b = msgp.AppendMapHeader(b, fields)
	b = msgp.AppendString(b, "email")
	b = msgp.AppendString(b, v.Email)
	b = msgp.AppendString(b, "status")
	b = msgp.AppendString(b, string(v.Status))

	b = msgp.AppendString(b, "checks")
	names := make([]string, 0, len(v.Checks))
	for name := range v.Checks {
		names = append(names, name)
	}
	slices.Sort(names)
	b = msgp.AppendMapHeader(b, uint32(len(names)))
	for _, name := range names {
		b = msgp.AppendString(b, name)
		b = msgp.AppendBool(b, v.Checks[name])
	}

	if v.Reason != "" {
		b = msgp.AppendString(b, "reason")
		b = msgp.AppendString(b, v.Reason)
	}
	if len(v.MXRecords) > 0 {
		b = msgp.AppendString(b, "mx_records")
		b = msgp.AppendArrayHeader(b, uint32(len(v.MXRecords)))
		for _, mx := range v.MXRecords {
			b = msgp.AppendMapHeader(b, 2)
			b = msgp.AppendString(b, "priority")
			b = msgp.AppendUint16(b, mx.Priority)
			b = msgp.AppendString(b, "host")
			b = msgp.AppendString(b, mx.Host)
		}
	}
	return b
}
