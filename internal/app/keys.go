package app

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadKey is returned for histogram keys without a name.
var ErrBadKey = errors.New("bad histogram key")

// splitKey splits "a/b/name" into path "a/b" and name "name".
func splitKey(key string) (path, name string, err error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", "", fmt.Errorf("%w: empty", ErrBadKey)
	}
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		path, name = key[:i], key[i+1:]
	} else {
		name = key
	}
	if strings.Contains(key, "//") {
		return "", "", fmt.Errorf("%w: %q", ErrBadKey, key)
	}
	return path, name, nil
}
