package errs

// Definition is a business error with a stable code for API responses.
type Definition struct {
	Code    string
	Message string
}

func (d Definition) Error() string {
	return d.Message
}

var (
	InvalidAmount       = Definition{Code: "INVALID_AMOUNT", Message: "XP amount must not be negative"}
	InvalidActivityType = Definition{Code: "INVALID_ACTIVITY_TYPE", Message: "Unknown activity type"}
	ProfileNotFound     = Definition{Code: "PROFILE_NOT_FOUND", Message: "Gamification profile not found"}
	ConcurrencyConflict = Definition{Code: "CONCURRENCY_CONFLICT", Message: "Profile is busy, retry the activity"}

	// PredicateEvaluationExhausted is logged, never surfaced as a hard failure.
	PredicateEvaluationExhausted = Definition{Code: "PREDICATE_EVALUATION_EXHAUSTED", Message: "Achievement evaluation pass budget reached"}
)

// Lookup maps codes back to definitions.
var Lookup = map[string]Definition{
	InvalidAmount.Code:                InvalidAmount,
	InvalidActivityType.Code:          InvalidActivityType,
	ProfileNotFound.Code:              ProfileNotFound,
	ConcurrencyConflict.Code:          ConcurrencyConflict,
	PredicateEvaluationExhausted.Code: PredicateEvaluationExhausted,
}

func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
