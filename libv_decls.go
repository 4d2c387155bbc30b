package vizh

import (
	_ "embed"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

//go:embed libv/libv_decls.toml
var libvDeclsTOML string

// RuntimeEntry describes one libv runtime function: its logical name
// (used internally by the lowerer), its C symbol, whether it takes the
// running function's vizh_ctx_t* as its first parameter, its
// remaining parameter declarations and its return type.
type RuntimeEntry struct {
	Name     string   `toml:"name"`
	CName    string   `toml:"c_name"`
	CtxParam bool     `toml:"ctx_param"`
	Params   []string `toml:"params"`
	Returns  string   `toml:"returns"`

	// Callable marks an entry as a valid Call(name) target from
	// source programs (as opposed to an internal instruction
	// primitive the Lowerer only ever calls itself).
	Callable bool `toml:"callable"`
	// MetaRef, only meaningful when Callable, means the call site
	// passes &ctx rather than forwarding tape pointers; true only
	// for newtape/freetape.
	MetaRef bool `toml:"meta_ref"`
	// NArgs, for Callable non-MetaRef entries, is how many tape
	// pointers starting at tapes[current_tape] are forwarded.
	NArgs int `toml:"n_args"`
}

type runtimeTable struct {
	Entries []RuntimeEntry `toml:"entries"`
}

// Forward renders this entry's C forward declaration, e.g.
// "void vizh_inc(vizh_ctx_t *ctx);".
func (e RuntimeEntry) Forward() string {
	params := make([]string, 0, len(e.Params)+1)
	if e.CtxParam {
		params = append(params, "vizh_ctx_t *ctx")
	}
	params = append(params, e.Params...)
	if len(params) == 0 {
		params = append(params, "void")
	}
	decl := e.Returns + " " + e.CName + "("
	for i, p := range params {
		if i > 0 {
			decl += ", "
		}
		decl += p
	}
	return decl + ");"
}

// LoadRuntimeTable parses the embedded libv_decls.toml into the set of
// RuntimeEntry values the Lowerer forward-declares and calls by name.
func LoadRuntimeTable() ([]RuntimeEntry, error) {
	var table runtimeTable
	if _, err := toml.Decode(libvDeclsTOML, &table); err != nil {
		return nil, errors.Wrap(err, "vizh: could not parse libv runtime declaration table")
	}
	return table.Entries, nil
}

// runtimeByName indexes entries for the Lowerer's instruction-to-call
// dispatch.
func runtimeByName(entries []RuntimeEntry) map[string]RuntimeEntry {
	m := make(map[string]RuntimeEntry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return m
}
