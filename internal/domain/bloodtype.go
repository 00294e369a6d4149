package domain

import (
	"fmt"
	"regexp"
)

// BloodType is the ABO/Rh blood group. All per-type structures key on this
// enumeration, never on free text.
type BloodType string

const (
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
)

var bloodTypePattern = regexp.MustCompile(`^(A|B|AB|O)[+-]$`)

// AllBloodTypes lists every valid blood type in a stable order.
var AllBloodTypes = []BloodType{
	OPositive, ONegative, APositive, ANegative,
	BPositive, BNegative, ABPositive, ABNegative,
}

// ParseBloodType validates a raw string against the blood group pattern.
func ParseBloodType(raw string) (BloodType, error) {
	if !bloodTypePattern.MatchString(raw) {
		return "", fmt.Errorf("invalid blood type %q", raw)
	}
	return BloodType(raw), nil
}

// Valid reports whether the blood type matches the enumeration pattern.
func (bt BloodType) Valid() bool {
	return bloodTypePattern.MatchString(string(bt))
}

func (bt BloodType) String() string {
	return string(bt)
}
