package model

import "fmt"

type InvalidTemplateDataError struct {
	Field  string
	Reason string
}

func (e InvalidTemplateDataError) Error() string {
	return fmt.Sprintf("invalid template data: %s: %s", e.Field, e.Reason)
}
