package objectstore

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// DocumentName derives the stored name of link. It is the text after the
// first occurrence of marker or, when link doesn't contain the marker, the
// last segment of the link path.
func DocumentName(link, marker string) (string, error) {
	if marker != "" {
		if idx := strings.Index(link, marker); idx >= 0 {
			name := link[idx+len(marker):]
			if name == "" {
				return "", fmt.Errorf("DocumentName(): %s has nothing after %q", link, marker)
			}
			return checkName(link, name)
		}
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("DocumentName(): %w", err)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("DocumentName(): %s has no path segment to name it by", link)
	}
	return checkName(link, name)
}

// checkName rejects names that would escape the destination folder.
func checkName(link, name string) (string, error) {
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, "\\") {
		return "", fmt.Errorf("DocumentName(): %s yields absolute name %q", link, name)
	}
	segments := strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' })
	for _, seg := range segments {
		if seg == ".." {
			return "", fmt.Errorf("DocumentName(): %s yields name %q leaving its folder", link, name)
		}
	}
	return name, nil
}

// ObjectKey places name under folder.
func ObjectKey(folder, name string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}
