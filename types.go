package withdefaults

import (
	"fmt"
	"strings"
)

// Mode selects the with-defaults retrieval policy for one request.
//
// The zero value means the with-defaults parameter was not supplied; the
// Retriever resolves it to the server basic-mode.
type Mode int

const (
	ModeReportAll       Mode = iota + 1 // Report every node, defaults included.
	ModeReportAllTagged                 // Like report-all, defaults carry the default tag.
	ModeTrim                            // Drop any leaf whose value equals its default.
	ModeExplicit                        // Report only what a client explicitly wrote.
)

var modeNames = [...]string{
	ModeReportAll:       "report-all",
	ModeReportAllTagged: "report-all-tagged",
	ModeTrim:            "trim",
	ModeExplicit:        "explicit",
}

// Modes lists every mode in protocol order.
func Modes() []Mode {
	return []Mode{ModeReportAll, ModeReportAllTagged, ModeTrim, ModeExplicit}
}

func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	if m == 0 {
		return "unspecified"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is one of the four retrieval modes.
func (m Mode) Valid() bool { return m >= ModeReportAll && m <= ModeExplicit }

// ParseMode parses the RFC 6243 token of a mode. The empty string yields the
// zero Mode (basic-mode).
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	for _, m := range Modes() {
		if modeNames[m] == s {
			return m, nil
		}
	}
	return 0, unsupportedMode(s)
}

// Kind is the schema node kind.
type Kind int

const (
	KindLeaf Kind = iota
	KindLeafList
	KindContainer
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindLeafList:
		return "leaf-list"
	case KindContainer:
		return "container"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a YANG statement keyword into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "leaf":
		return KindLeaf, nil
	case "leaf-list":
		return KindLeafList, nil
	case "container":
		return KindContainer, nil
	case "list":
		return KindList, nil
	}
	return 0, fmt.Errorf("withdefaults: unknown node kind %q", s)
}

// IsTerminal reports whether nodes of this kind carry a value.
func (k Kind) IsTerminal() bool { return k == KindLeaf || k == KindLeafList }

// Origin records why a value node exists.
type Origin int

const (
	OriginExplicit        Origin = iota // Written by a client or a prior edit.
	OriginImplicitDefault               // Synthesized from the schema default.
)

func (o Origin) String() string {
	if o == OriginImplicitDefault {
		return "implicit-default"
	}
	return "explicit"
}
