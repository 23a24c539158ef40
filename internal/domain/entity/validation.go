package entity

// requiredString extracts a field that must be present, a string, and
// non-empty. Identifier-class fields (id, name, title) use this rule.
func requiredString(r RawRecord, key string) (string, error) {
	s, err := presentString(r, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", &ValidationError{Field: key, Message: "must not be empty"}
	}
	return s, nil
}

// presentString extracts a field that must be present as a string; empty
// strings are allowed. Journal and date fields use this rule so sparse rows
// survive validation and simply contribute empty provenance.
func presentString(r RawRecord, key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", &ValidationError{Field: key, Message: "missing required field"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ValidationError{Field: key, Message: "must be a string"}
	}
	return s, nil
}
