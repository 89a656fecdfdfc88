package assets

import "strings"

// JoinURL joins a relative asset path onto root with exactly one "/"
// between them. Unlike path.Join it leaves the root untouched, so scheme
// separators such as "https://" or "jar:file:///" survive. An empty root
// returns name unchanged.
func JoinURL(root, name string) string {
	if root == "" {
		return name
	}
	return strings.TrimRight(root, "/") + "/" + strings.TrimLeft(name, "/")
}

// underRoot reports whether name is the asset root or lies below it.
func (ix *Index) underRoot(name string) bool {
	return name == ix.root || strings.HasPrefix(name, ix.root+"/")
}

// rooted returns name joined onto the asset root, unless it is already
// rooted there.
func (ix *Index) rooted(name string) string {
	if ix.root == "" || ix.underRoot(name) {
		return name
	}
	return JoinURL(ix.root, name)
}

// relative strips the asset root from name, if present, leaving a path
// relative to the root.
func (ix *Index) relative(name string) string {
	if ix.root == "" || !ix.underRoot(name) {
		return name
	}
	return strings.TrimLeft(strings.TrimPrefix(name, ix.root), "/")
}
