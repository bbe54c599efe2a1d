package models

import "fmt"

// CollectionName is a validated vector-store namespace key. Construct it with
// ParseCollectionName so a malformed name can never reach the store and be
// created implicitly.
type CollectionName string

const maxCollectionNameLen = 128

// ParseCollectionName checks that name is non-empty, at most 128 characters,
// starts with a letter or digit, and contains only letters, digits, '.', '_'
// and '-'.
func ParseCollectionName(name string) (CollectionName, error) {
	if name == "" {
		return "", fmt.Errorf("collection name must not be empty")
	}
	if len(name) > maxCollectionNameLen {
		return "", fmt.Errorf("collection name exceeds %d characters", maxCollectionNameLen)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
			if i == 0 {
				return "", fmt.Errorf("collection name must start with a letter or digit")
			}
		default:
			return "", fmt.Errorf("collection name contains invalid character %q", c)
		}
	}
	return CollectionName(name), nil
}

func (c CollectionName) String() string { return string(c) }
