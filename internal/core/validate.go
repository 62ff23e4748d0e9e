package core

import "strings"

// ValidationError reports a rejected submission. The message is meant for
// the user verbatim; the type lets transports map it to a 4xx instead of
// a generic failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks a candidate submission against the field rules.
//
// Vehicle type, category and the attachment are checked first and
// short-circuit with a single combined message. Otherwise every required
// field that is empty is listed, comma-joined, in one message. A required
// numeric field set to zero counts as missing. Pure check, no side effects.
func Validate(vehicleType, category string, fields FieldValues, attachment []byte) error {
	if vehicleType == "" || category == "" || len(attachment) == 0 {
		return &ValidationError{Message: "Please complete all required fields including uploading a file."}
	}

	var missing []string
	for _, name := range RequiredFields(category, fields.Type) {
		if fieldEmpty(fields, name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "Please complete all required fields: " + strings.Join(missing, ", ") + "."}
	}
	return nil
}

func fieldEmpty(f FieldValues, name string) bool {
	switch name {
	case FieldProjectNumber:
		return strings.TrimSpace(f.ProjectNumber) == ""
	case FieldType:
		return strings.TrimSpace(f.Type) == ""
	case FieldProductName:
		return strings.TrimSpace(f.ProductName) == ""
	case FieldQuantity:
		return f.Quantity.IsZero()
	case FieldPricePerUnit:
		return f.PricePerUnit.IsZero()
	case FieldVendor:
		return strings.TrimSpace(f.Vendor) == ""
	case FieldDescription:
		return strings.TrimSpace(f.Description) == ""
	case FieldPrice:
		return f.Price.IsZero()
	}
	return false
}
