package request

import "fmt"

// ReadString asserts the loosely typed JSON value is a string. It does not
// trim or reject empty values; callers decide whether blank input is valid.
func ReadString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("value is not a string")
	}
}
