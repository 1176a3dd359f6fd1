package employee

import (
	"fmt"
	"strconv"

	"github.com/cmlabs-hris/sirh-backend-go/internal/pkg/validator"
)

const (
	FirstEmployeeID = "A0001"
	LastEmployeeID  = "Z9999"

	maxEmployeeSuffix = 9999
)

// NextEmployeeID returns the immediate successor of currentMax in the sequence
// A0001 < … < A9999 < B0001 < … < Z9999. A nil currentMax means no employee exists yet.
func NextEmployeeID(currentMax *string) (string, error) {
	if currentMax == nil {
		return FirstEmployeeID, nil
	}

	id := *currentMax
	if !validator.IsValidEmployeeID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmployeeID, id)
	}

	letter := id[0]
	suffix, err := strconv.Atoi(id[1:])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidEmployeeID, id)
	}

	suffix++
	if suffix > maxEmployeeSuffix {
		if letter == 'Z' {
			return "", ErrAllocatorExhausted
		}
		letter++
		suffix = 1
	}

	return fmt.Sprintf("%c%04d", letter, suffix), nil
}
