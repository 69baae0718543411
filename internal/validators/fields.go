package validators

import "fmt"

func MaxLength(n int) string {
	return fmt.Sprintf("Ensure this field has no more than %d characters.", n)
}

func MinValue(n int) string {
	return fmt.Sprintf("Ensure this value is greater than or equal to %d.", n)
}

func MaxValue(n int) string {
	return fmt.Sprintf("Ensure this value is less than or equal to %d.", n)
}

func InvalidChoice(v string) string {
	return fmt.Sprintf("\"%s\" is not a valid choice.", v)
}

const (
	MsgInvalidDate = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgInvalidUUID = "Must be a valid UUID."
	MsgBlank       = "This field may not be blank."
)

// InvalidPK is reported when a referenced row does not exist.
func InvalidPK(v string) string {
	return fmt.Sprintf("Invalid pk \"%s\" - object does not exist.", v)
}
