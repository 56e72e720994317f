package asyncflat

import (
	"strings"

	"github.com/perf-stats/pkg/model"
)

// javaFrameSuffix is appended by async-profiler (with --cstack/-a options) to
// frames of managed code. It is a frame type marker, not part of the name.
const javaFrameSuffix = "_[j]"

type scanState int

const (
	stateComponent scanState = iota // accumulating a name component
	stateSignature                  // '(' seen; the signature that follows is ignored
	stateNative                     // native marker seen; the name is rejected
	stateEnd                        // end of input reached
)

// isNativeMarker reports whether c cannot occur in a JVM source-level name
// but does occur in C/C++ symbols and library paths.
func isNativeMarker(c byte) bool {
	return c == ':' || c == '/'
}

// ParseName decomposes a raw frame name into a managed code reference.
//
// The name is split into components at '.' and '$', so nested, anonymous and
// lambda classes collapse into the same dotted path as packages. Scanning stops
// at '(' (a method signature follows). A ':' or '/' marks a native symbol and
// rejects the name. The last component becomes the member name and the rest
// the qualified name; at least two components are required.
func ParseName(raw string) (model.CodeReference, bool) {
	end := len(raw)
	if strings.HasSuffix(raw, javaFrameSuffix) {
		end -= len(javaFrameSuffix)
	}

	components := make([]string, 0, 8)
	start := 0
	state := stateComponent
	for i := 0; state == stateComponent; i++ {
		if i == end {
			components = append(components, raw[start:end])
			state = stateEnd
			break
		}
		switch c := raw[i]; {
		case c == '.' || c == '$':
			components = append(components, raw[start:i])
			start = i + 1
		case c == '(':
			components = append(components, raw[start:i])
			state = stateSignature
		case isNativeMarker(c):
			state = stateNative
		}
	}

	if state == stateNative || len(components) < 2 {
		return model.CodeReference{}, false
	}

	last := len(components) - 1
	ref, err := model.NewReferenceBuilder().
		WithQualifiedName(strings.Join(components[:last], ".")).
		WithMemberName(components[last]).
		Build()
	if err != nil {
		return model.CodeReference{}, false
	}
	return ref, true
}
