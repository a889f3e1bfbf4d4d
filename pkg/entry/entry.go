// Package entry validates caller-supplied entry names before they are used as
// file names.
//
// A raw entry is decomposed with the platform's path model (volume prefix,
// root, "." and ".." segments, normal segments) and accepted only when it is
// exactly one normal segment. Nothing is trimmed or folded: an accepted key is
// the raw text, used verbatim as a file name.
package entry

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/userstore/pkg/core"
)

// Kind classifies a path component.
type Kind int

const (
	KindPrefix    Kind = iota // volume name, e.g. "C:" or `\\host\share`
	KindRoot                  // leading separator
	KindCurDir                // "."
	KindParentDir             // ".."
	KindNormal                // anything else
)

func (k Kind) String() string {
	switch k {
	case KindPrefix:
		return "prefix"
	case KindRoot:
		return "root"
	case KindCurDir:
		return "."
	case KindParentDir:
		return ".."
	default:
		return "normal"
	}
}

// Component is one syntactic piece of a path.
type Component struct {
	Kind Kind
	Text string
}

// Components decomposes p into its syntactic components.
// Runs of separators never produce empty components.
func Components(p string) []Component {
	var out []Component

	vol := filepath.VolumeName(p)
	if vol != "" {
		out = append(out, Component{Kind: KindPrefix, Text: vol})
		p = p[len(vol):]
	}
	if len(p) > 0 && os.IsPathSeparator(p[0]) {
		out = append(out, Component{Kind: KindRoot, Text: p[:1]})
	}

	start := -1
	for i := 0; i <= len(p); i++ {
		if i < len(p) && !os.IsPathSeparator(p[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, segment(p[start:i]))
			start = -1
		}
	}
	return out
}

func segment(s string) Component {
	switch s {
	case ".":
		return Component{Kind: KindCurDir, Text: s}
	case "..":
		return Component{Kind: KindParentDir, Text: s}
	default:
		return Component{Kind: KindNormal, Text: s}
	}
}

// Key is an entry proven safe to use as exactly one path segment.
type Key string

func (k Key) String() string { return string(k) }

// Validate accepts raw iff it is exactly one normal path component.
// Rejections are *core.RejectError wrapping core.ErrInvalidEntry.
func Validate(raw string) (Key, error) {
	if reason := check(raw); reason != "" {
		return "", core.Reject(core.ErrInvalidEntry, raw, reason)
	}
	return Key(raw), nil
}

// IsValid reports whether raw would be accepted by Validate.
func IsValid(raw string) bool {
	return check(raw) == ""
}

func check(raw string) string {
	if raw == "" {
		return "entry is empty"
	}
	if strings.IndexByte(raw, 0) >= 0 {
		return "entry contains a NUL byte"
	}

	comps := Components(raw)
	if len(comps) == 0 {
		return "entry has no components"
	}
	switch comps[0].Kind {
	case KindPrefix:
		return "entry has a volume prefix"
	case KindRoot:
		return "entry is an absolute path"
	}
	if len(comps) > 1 {
		return "entry must be a single path component"
	}

	c := comps[0]
	switch c.Kind {
	case KindCurDir, KindParentDir:
		return "entry refers to a directory"
	}
	// A trailing separator still yields one component; the text comparison rejects it.
	if c.Text != raw {
		return "entry contains a path separator"
	}
	return ""
}
