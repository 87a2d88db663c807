package tone

import "fmt"

// ContractError reports caller misuse of the mixer, such as mismatched
// sheet and weight counts.
type ContractError struct {
	Message string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("tone mix contract error: %s", e.Message)
}
