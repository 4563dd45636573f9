package ast

import "strings"

// SymbolInfo decodes the sub-syntax a Symbol name may encode, per spec §3:
// leading '.' (dot-method call), trailing ':T' (type annotation), embedded
// '.' (member path), embedded '?.' (optional chain), leading '...' (spread),
// 'js/' prefix (raw JS identifier passthrough), and leading '#' (private
// class field).
type SymbolInfo struct {
	Raw string

	IsDotMethod bool // .method
	MethodName  string

	IsSpread bool // ...expr
	SpreadOf string

	IsJSRaw  bool // js/foo
	JSRawIdent string

	IsPrivateField bool // #field
	PrivateName    string

	TypeAnnotation string // trailing :T, "" if none
	BaseName       string // name with the type annotation stripped

	IsMemberPath   bool // contains embedded '.' or '?.'
	IsOptionalPath bool // contains at least one '?.' segment
	PathSegments   []PathSegment
}

// PathSegment is one step of a decoded member path (a.b?.c).
type PathSegment struct {
	Name     string
	Optional bool // true if reached via '?.'
}

// AnalyzeSymbol decodes name into a SymbolInfo. It is pure and side-effect
// free so lowering can call it repeatedly without caching concerns.
func AnalyzeSymbol(name string) SymbolInfo {
	info := SymbolInfo{Raw: name, BaseName: name}

	if name == "_" {
		return info
	}

	if strings.HasPrefix(name, "...") {
		info.IsSpread = true
		info.SpreadOf = strings.TrimPrefix(name, "...")
		return info
	}

	if strings.HasPrefix(name, "js/") {
		info.IsJSRaw = true
		info.JSRawIdent = strings.ReplaceAll(strings.TrimPrefix(name, "js/"), "-", "_")
		return info
	}

	if strings.HasPrefix(name, "#") && len(name) > 1 {
		info.IsPrivateField = true
		info.PrivateName = name[1:]
		return info
	}

	if strings.HasPrefix(name, ".") && !strings.HasPrefix(name, "..") && len(name) > 1 {
		info.IsDotMethod = true
		info.MethodName = name[1:]
		return info
	}

	base := name
	// Type annotation: a trailing ":T" not part of a namespaced path like
	// "a/b:T" still just strips from the last colon.
	if idx := strings.LastIndex(base, ":"); idx > 0 && idx < len(base)-1 {
		info.TypeAnnotation = base[idx+1:]
		base = base[:idx]
	}
	info.BaseName = base

	if strings.Contains(base, "?.") || (strings.Contains(base, ".") && !isPureNumberLike(base)) {
		segs := splitMemberPath(base)
		if len(segs) > 1 {
			info.IsMemberPath = true
			info.PathSegments = segs
			for _, s := range segs {
				if s.Optional {
					info.IsOptionalPath = true
					break
				}
			}
		}
	}

	return info
}

// splitMemberPath splits a dotted path like "a.b?.c" into segments, keeping
// track of which segment boundary used '?.' versus '.'.
func splitMemberPath(path string) []PathSegment {
	var segs []PathSegment
	var cur strings.Builder
	optionalNext := false
	i := 0
	for i < len(path) {
		if path[i] == '?' && i+1 < len(path) && path[i+1] == '.' {
			segs = append(segs, PathSegment{Name: cur.String(), Optional: optionalNext})
			cur.Reset()
			optionalNext = true
			i += 2
			continue
		}
		if path[i] == '.' {
			segs = append(segs, PathSegment{Name: cur.String(), Optional: optionalNext})
			cur.Reset()
			optionalNext = false
			i++
			continue
		}
		cur.WriteByte(path[i])
		i++
	}
	segs = append(segs, PathSegment{Name: cur.String(), Optional: optionalNext})
	return segs
}

// isPureNumberLike guards against treating a plain numeric-looking symbol
// (which never reaches here as a Symbol, but defends a malformed input) as
// a member path.
func isPureNumberLike(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c == '.') {
			return false
		}
	}
	return true
}
