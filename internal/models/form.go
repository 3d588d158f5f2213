package models

// FormKind distinguishes the two form session types.
type FormKind string

const (
	FormKindApplication FormKind = "application"
	FormKindPayment     FormKind = "payment"
)

// FormPhase is the state of a form session.
type FormPhase string

const (
	FormPhaseEditing    FormPhase = "editing"
	FormPhaseProcessing FormPhase = "processing"
	FormPhaseSubmitted  FormPhase = "submitted"
)

// ValidationErrors maps a field name to its message. Absent fields are valid.
type ValidationErrors map[string]string

// Clone copies the set so callers cannot mutate session state.
func (v ValidationErrors) Clone() ValidationErrors {
	out := make(ValidationErrors, len(v))
	for k, msg := range v {
		out[k] = msg
	}
	return out
}
