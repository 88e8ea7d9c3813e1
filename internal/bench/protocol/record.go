// Package protocol decodes the single structured record an MLIP worker
// prints on stdout. The field names mlip/energy/time/error are the stable
// contract between a worker and the orchestrator; everything else in the
// stream is noise the worker's libraries were free to print.
package protocol

// Record is one decoded worker payload. Pointer fields distinguish
// "absent" from zero. Unknown fields are ignored on decode.
type Record struct {
	MLIP   string   `json:"mlip"`
	Energy *float64 `json:"energy"`
	Time   *float64 `json:"time"`
	Error  *string  `json:"error"`
}

// Failed reports whether the worker used the error side of the protocol.
func (r *Record) Failed() bool {
	return r.Error != nil
}
