package withdefaults

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// CapabilityURI is the base URI of the with-defaults capability.
const CapabilityURI = "urn:ietf:params:netconf:capability:with-defaults:1.0"

// Capabilities is what the server advertises for with-defaults.
type Capabilities struct {
	BasicMode     Mode   // Used when a request carries no mode. Never report-all-tagged.
	AlsoSupported []Mode // Further modes a client may request.
}

// DefaultCapabilities advertises basic-mode explicit with every other mode
// also supported.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		BasicMode:     ModeExplicit,
		AlsoSupported: []Mode{ModeReportAll, ModeReportAllTagged, ModeTrim},
	}
}

// Validate checks the basic-mode and the also-supported list.
func (c Capabilities) Validate() error {
	if !c.BasicMode.Valid() || c.BasicMode == ModeReportAllTagged {
		return fmt.Errorf("withdefaults: invalid basic-mode %s", c.BasicMode)
	}
	for _, m := range c.AlsoSupported {
		if !m.Valid() {
			return fmt.Errorf("withdefaults: invalid also-supported mode %s", m)
		}
	}
	return nil
}

// Supports reports whether a request may select m.
func (c Capabilities) Supports(m Mode) bool {
	return m.Valid() && (m == c.BasicMode || slices.Contains(c.AlsoSupported, m))
}

// Resolve maps the requested mode to the effective one. The zero Mode
// resolves to the basic-mode; anything unsupported fails with
// ErrUnsupportedMode.
func (c Capabilities) Resolve(m Mode) (Mode, error) {
	if m == 0 {
		return c.BasicMode, nil
	}
	if !c.Supports(m) {
		return 0, unsupportedMode(m.String())
	}
	return m, nil
}

// URI renders the capability as advertised in a NETCONF hello.
func (c Capabilities) URI() string {
	b := &strings.Builder{}
	b.WriteString(CapabilityURI)
	b.WriteString("?basic-mode=")
	b.WriteString(c.BasicMode.String())
	var also []string
	for _, m := range Modes() {
		if m != c.BasicMode && slices.Contains(c.AlsoSupported, m) {
			also = append(also, m.String())
		}
	}
	if len(also) > 0 {
		b.WriteString("&also-supported=")
		b.WriteString(strings.Join(also, ","))
	}
	return b.String()
}

// ParseCapability parses a with-defaults capability URI.
func ParseCapability(uri string) (Capabilities, error) {
	base, query, _ := strings.Cut(uri, "?")
	if base != CapabilityURI {
		return Capabilities{}, fmt.Errorf("withdefaults: not a with-defaults capability: %q", uri)
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return Capabilities{}, fmt.Errorf("withdefaults: capability parameters: %w", err)
	}
	var c Capabilities
	if c.BasicMode, err = ParseMode(q.Get("basic-mode")); err != nil {
		return Capabilities{}, err
	}
	if also := q.Get("also-supported"); also != "" {
		for _, tok := range strings.Split(also, ",") {
			m, err := ParseMode(tok)
			if err != nil {
				return Capabilities{}, err
			}
			c.AlsoSupported = append(c.AlsoSupported, m)
		}
	}
	return c, c.Validate()
}
