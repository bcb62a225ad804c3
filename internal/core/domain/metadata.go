package domain

import "fmt"

// MaxMetadataEntries is the backend's per-document cap on custom metadata.
const MaxMetadataEntries = 20

// MetadataEntry is one caller-attached annotation on a document. Exactly one
// of the three value variants must be set.
type MetadataEntry struct {
	// Key identifies the entry. Required.
	Key string

	// StringValue holds a single string value.
	StringValue *string

	// NumericValue holds a single numeric value.
	NumericValue *float64

	// StringListValue holds an ordered list of strings.
	StringListValue []string
}

// variantCount reports how many value variants are set.
func (e MetadataEntry) variantCount() int {
	n := 0
	if e.StringValue != nil {
		n++
	}
	if e.NumericValue != nil {
		n++
	}
	if e.StringListValue != nil {
		n++
	}
	return n
}

// Validate checks the entry shape: a non-empty key and exactly one value
// variant.
func (e MetadataEntry) Validate() error {
	if e.Key == "" {
		return fmt.Errorf("%w: metadata entry must have a key", ErrInvalidInput)
	}
	switch n := e.variantCount(); {
	case n == 0:
		return fmt.Errorf("%w: metadata entry %q must set string_value, numeric_value, or string_list_value",
			ErrInvalidInput, e.Key)
	case n > 1:
		return fmt.Errorf("%w: metadata entry %q sets %d value variants, want exactly one", ErrInvalidInput, e.Key, n)
	}
	return nil
}

// ValidateMetadata checks an ordered metadata list before any network call:
// at most MaxMetadataEntries entries, each individually valid.
func ValidateMetadata(entries []MetadataEntry) error {
	if len(entries) > MaxMetadataEntries {
		return fmt.Errorf("%w: %d custom metadata entries exceeds the maximum of %d",
			ErrInvalidInput, len(entries), MaxMetadataEntries)
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// StringMetadata builds a string-valued entry.
func StringMetadata(key, value string) MetadataEntry {
	return MetadataEntry{Key: key, StringValue: &value}
}

// NumericMetadata builds a numeric-valued entry.
func NumericMetadata(key string, value float64) MetadataEntry {
	return MetadataEntry{Key: key, NumericValue: &value}
}

// StringListMetadata builds a string-list-valued entry.
func StringListMetadata(key string, values ...string) MetadataEntry {
	if values == nil {
		values = []string{}
	}
	return MetadataEntry{Key: key, StringListValue: values}
}
