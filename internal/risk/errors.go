package risk

import "fmt"

// MissingFactorError reports a measurement the condition requires but the
// caller did not supply.
type MissingFactorError struct {
	Condition string
	Factor    string
}

func (e *MissingFactorError) Error() string {
	return fmt.Sprintf("condition %q: missing measurement %q", e.Condition, e.Factor)
}

// InvalidValueError reports a measurement that cannot be scored: a
// non-finite number, or a value of the wrong kind for the factor's rule.
type InvalidValueError struct {
	Condition string
	Factor    string
	Reason    string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("condition %q: invalid measurement %q: %s", e.Condition, e.Factor, e.Reason)
}
