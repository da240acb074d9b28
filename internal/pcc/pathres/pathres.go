// Package pathres turns the path tokens found in descriptor and list
// directives into filesystem paths.
//
// A token's first character selects its anchor:
//
//	/name    absolute, used verbatim
//	@name    relative to the toplevel data directory
//	*name    wildcard form, anchored like '@'
//	name     relative to the directory of the file being parsed
package pathres

import (
	"errors"
	"path"
	"strings"
)

// ErrEmptyToken is returned for zero-length path tokens.
var ErrEmptyToken = errors.New("empty path token")

const (
	absolutePrefix = '/'
	dataDirPrefix  = '@'
	wildcardPrefix = '*'
)

// NormalizeDataDir converts separators to '/' and guarantees a trailing
// separator so tokens can be appended directly.
func NormalizeDataDir(dir string) string {
	dir = toSlash(dir)
	if dir == "" {
		return "./"
	}
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return dir
}

// Resolve maps a list-file path token to a filesystem path.
func Resolve(token, baseDir, dataDir string) (string, error) {
	token = toSlash(token)
	if token == "" {
		return "", ErrEmptyToken
	}

	switch token[0] {
	case absolutePrefix:
		return token, nil
	case dataDirPrefix, wildcardPrefix:
		return NormalizeDataDir(dataDir) + token[1:], nil
	default:
		return strings.TrimSuffix(toSlash(baseDir), "/") + "/" + token, nil
	}
}

// ResolveDescriptor maps a descriptor include token to a filesystem path.
// A leading '@' is stripped; the remainder, like any token without '@', is
// anchored at the data directory. Absolute tokens are used verbatim.
func ResolveDescriptor(token, dataDir string) (string, error) {
	token = toSlash(token)
	if token == "" {
		return "", ErrEmptyToken
	}

	relative := token
	if token[0] == dataDirPrefix {
		relative = token[1:]
		if relative == "" {
			return "", ErrEmptyToken
		}
	} else if token[0] == absolutePrefix {
		return token, nil
	}
	return NormalizeDataDir(dataDir) + relative, nil
}

// IsWildcard reports whether the token uses the wildcard prefix.
func IsWildcard(token string) bool {
	return token != "" && token[0] == wildcardPrefix
}

// Dir returns the directory holding the file at p, "." when p has none.
func Dir(p string) string {
	return path.Dir(toSlash(p))
}

func toSlash(p string) string {
	if strings.Contains(p, `\`) {
		return strings.ReplaceAll(p, `\`, "/")
	}
	return p
}
