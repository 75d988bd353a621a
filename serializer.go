package withdefaults

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

// Serializer renders a Reply to a wire format. Implementations live under
// codec/ and register themselves from init.
type Serializer interface {
	Name() string // Format name, e.g. "xml" or "json".
	Serialize(w io.Writer, r *Reply) error
}

var (
	serializersMu sync.RWMutex
	serializers   = map[string]Serializer{}
)

// RegisterSerializer installs s under s.Name(), replacing any previous
// serializer of that name. nil values are ignored.
func RegisterSerializer(s Serializer) {
	if s == nil {
		return
	}
	serializersMu.Lock()
	serializers[s.Name()] = s
	serializersMu.Unlock()
}

// LookupSerializer returns the serializer registered under name.
func LookupSerializer(name string) (Serializer, bool) {
	serializersMu.RLock()
	s, ok := serializers[name]
	serializersMu.RUnlock()
	return s, ok
}

// SerializerNames lists registered format names in sorted order.
func SerializerNames() []string {
	serializersMu.RLock()
	defer serializersMu.RUnlock()
	names := make([]string, 0, len(serializers))
	for n := range serializers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Serialize writes r to w using the serializer registered for format.
func Serialize(w io.Writer, format string, r *Reply) error {
	s, ok := LookupSerializer(format)
	if !ok {
		return fmt.Errorf("withdefaults: no serializer for format %q (have %v)", format, SerializerNames())
	}
	return s.Serialize(w, r)
}
