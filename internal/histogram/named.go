package histogram

import "strings"

// Named is the identity label carried by every histogram. Path is a
// slash-delimited directory hint for persistence layers and may be empty.
type Named struct {
	name  string
	title string
	path  string
}

func newNamed(name, title, path string) Named {
	return Named{name: name, title: title, path: strings.Trim(path, "/")}
}

func (n Named) Name() string {
	return n.name
}

func (n Named) Title() string {
	return n.title
}

func (n Named) Path() string {
	return n.path
}

// Key joins path and name, e.g. "detector/ge/energy".
func (n Named) Key() string {
	return JoinKey(n.path, n.name)
}

// JoinKey builds the key of a histogram from its path and name. Leading and
// trailing slashes of path are ignored.
func JoinKey(path, name string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return name
	}
	return path + "/" + name
}
