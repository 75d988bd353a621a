// Package withdefaults implements default-aware retrieval of configuration
// data as defined by NETCONF with-defaults (RFC 6243).
//
// Given a compiled schema that declares leaf defaults, a datastore snapshot,
// and a retrieval mode, the package decides per node whether it appears in a
// get-config reply and whether it carries the default-indicator tag:
//
// - Registry holds the schema tree and its declared defaults (read-only, shared).
// - Build turns a datastore snapshot into a ValueNode tree, materializing absent defaults.
// - Classify computes the memoized "is default" verdict bottom-up.
// - Filter applies one of report-all, report-all-tagged, trim or explicit.
// - Assemble converts the filtered tree into a format-agnostic Reply.
//
// Design policy:
// - Keep only public APIs in the root package; wire formats live under codec/.
// - Construction, classification and filtering are pure and never mutate shared state.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	reg, err := schemafile.Load("schema.yaml")
//	store := datastore.NewMemory()
//	r, err := withdefaults.NewRetriever(reg, store, withdefaults.Options{})
//	reply, err := r.GetConfig(ctx, withdefaults.Request{RootPath: "/", Mode: withdefaults.ModeTrim})
//	err = withdefaults.Serialize(os.Stdout, "xml", reply)
package withdefaults
