package schema

import "fmt"

// enumValidator constrains a string field to a fixed value set.
func enumValidator(allowed ...string) func(string) error {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(s string) error {
		if _, ok := set[s]; !ok {
			return fmt.Errorf("value %q is not one of %v", s, allowed)
		}
		return nil
	}
}
