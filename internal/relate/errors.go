package relate

import "fmt"

type IncompatibleParentKindError struct {
	ParentID string
	Kind     string
	Reason   string
}

func (e IncompatibleParentKindError) Error() string {
	return fmt.Sprintf("template %s (%s) cannot take this child: %s", e.ParentID, e.Kind, e.Reason)
}
