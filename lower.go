package vizh

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Labels is a stack of loop label indices, used by the Lowerer to pair
// each LoopEnd with the LoopStart it closes when emitting goto-based
// loop code. It is a plain LIFO stack over int label IDs.
type Labels struct {
	stack []int
}

// Push adds a new label id to the top of the stack.
func (l *Labels) Push(id int) { l.stack = append(l.stack, id) }

// Pop removes and returns the top label id. ok is false on an empty
// stack.
func (l *Labels) Pop() (id int, ok bool) {
	if len(l.stack) == 0 {
		return 0, false
	}
	id = l.stack[len(l.stack)-1]
	l.stack = l.stack[:len(l.stack)-1]
	return id, true
}

// Empty reports whether the stack has no pending labels.
func (l *Labels) Empty() bool { return len(l.stack) == 0 }

// Lowerer compiles a set of Functions, which together form one
// compilation unit (one source image's function plus any sibling
// functions it calls within the same build), into a single C
// translation unit.
type Lowerer struct {
	runtime    map[string]RuntimeEntry
	signatures map[string]FunctionSignature
	externs    map[string]FunctionSignature
	nextLabel  int
}

// NewLowerer builds a Lowerer bound to a compilation unit's function
// signatures, used to validate Call targets and their argument
// counts, and loads the libv runtime declaration table. externs holds
// the signatures of functions supplied outside the unit (hand-written
// .c inputs); Call instructions may target them too. A nil externs
// map means the unit has none.
func NewLowerer(signatures, externs map[string]FunctionSignature) (*Lowerer, error) {
	entries, err := LoadRuntimeTable()
	if err != nil {
		return nil, err
	}
	return &Lowerer{
		runtime:    runtimeByName(entries),
		signatures: signatures,
		externs:    externs,
	}, nil
}

// mainMangledName is the C symbol the source function named "main" is
// renamed to, so it never collides with crtv.c's real C main().
const mainMangledName = "vizh_main"

// Compile lowers every function to C source, in the order given,
// prefixed by forward declarations for every extern, every runtime
// entry and every function in the unit (so mutual recursion between
// sibling functions needs no header file). The function literally
// named "main" is renamed to vizh_main; see libv/crtv.c for the real
// main() that drives it.
func (lw *Lowerer) Compile(funcs []*Function) (string, error) {
	var b strings.Builder

	b.WriteString("#include <stdint.h>\n")
	b.WriteString("#include \"libv.h\"\n\n")

	for _, sig := range sortedSignatures(lw.externs) {
		b.WriteString(sig.CDecl())
		b.WriteString(";\n")
	}
	if len(lw.externs) > 0 {
		b.WriteByte('\n')
	}

	for _, e := range sortedRuntimeEntries(lw.runtime) {
		b.WriteString(e.Forward())
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	for _, fn := range funcs {
		sig := fn.Signature
		if sig.Name == "main" {
			sig.Name = mainMangledName
		}
		b.WriteString(sig.CDecl())
		b.WriteString(";\n")
	}
	b.WriteByte('\n')

	for _, fn := range funcs {
		body, err := lw.compileFunction(fn)
		if err != nil {
			return "", &LowerError{Func: fn.Signature.Name, Cause: err}
		}
		b.WriteString(body)
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func (lw *Lowerer) compileFunction(fn *Function) (string, error) {
	sig := fn.Signature
	if sig.Name == "main" {
		sig.Name = mainMangledName
	}

	// Goto labels are function-scoped in C, so the counter restarts
	// per function; lowering the same IR twice yields identical text.
	lw.nextLabel = 0

	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", sig.CDecl())

	if sig.NArgs > 0 {
		b.WriteString("\tuint8_t *vizh_args[] = {")
		for i := 0; i < sig.NArgs; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "arg%d", i)
		}
		b.WriteString("};\n")
		fmt.Fprintf(&b, "\tvizh_ctx_t ctx = vizh_ctx_init(vizh_args, %d);\n\n", sig.NArgs)
	} else {
		b.WriteString("\tvizh_ctx_t ctx = vizh_ctx_init(NULL, 0);\n\n")
	}

	var labels Labels
	for _, instr := range fn.Instructions {
		line, err := lw.compileInstruction(fn.Signature.Name, instr, &labels)
		if err != nil {
			return "", err
		}
		b.WriteString(line)
	}

	if !labels.Empty() {
		return "", errors.Errorf("vizh: unresolved loop labels remain after compiling %q", fn.Signature.Name)
	}

	b.WriteString("\n\tvizh_ctx_free(&ctx);\n")
	b.WriteString("}\n")
	return b.String(), nil
}

func (lw *Lowerer) compileInstruction(caller string, instr Instruction, labels *Labels) (string, error) {
	switch instr.Kind() {
	case Left:
		return lw.callRuntime("left")
	case Right:
		return lw.callRuntime("right")
	case Up:
		return lw.callRuntime("up")
	case Down:
		return lw.callRuntime("down")
	case Inc:
		return lw.callRuntime("inc")
	case Dec:
		return lw.callRuntime("dec")
	case Read:
		return lw.callRuntime("read")
	case Write:
		return lw.callRuntime("write")
	case LoopStart:
		id := lw.nextLabel
		lw.nextLabel++
		labels.Push(id)
		return fmt.Sprintf("\tLstart%d:\n\tif (!vizh_cell(&ctx)) goto Lend%d;\n", id, id), nil
	case LoopEnd:
		id, ok := labels.Pop()
		if !ok {
			return "", errors.New("vizh: loop end with no matching loop start")
		}
		return fmt.Sprintf("\tgoto Lstart%d;\n\tLend%d:;\n", id, id), nil
	case Call:
		return lw.compileCall(caller, instr.Callee())
	default:
		return "", errors.Errorf("vizh: unknown instruction kind %v", instr.Kind())
	}
}

func (lw *Lowerer) callRuntime(name string) (string, error) {
	entry, ok := lw.runtime[name]
	if !ok {
		return "", errors.Errorf("vizh: no libv runtime entry named %q", name)
	}
	return fmt.Sprintf("\t%s(&ctx);\n", entry.CName), nil
}

// compileCall emits a Call(callee) instruction, resolving the target
// against the runtime table, the unit's sibling functions and its
// externs, in that order. Per the runtime calling convention, a
// callee receives tape pointers starting at tapes[current_tape], not
// the caller's original arguments: Left/Right moves recorded in
// ctx.tapes are what a callee actually observes. newtape/freetape are
// special-cased to take the running function's metadata (&ctx) by
// reference instead, since they change how many tapes exist rather
// than operating on one.
func (lw *Lowerer) compileCall(caller, callee string) (string, error) {
	if entry, ok := lw.runtime[callee]; ok && entry.Callable {
		if entry.MetaRef {
			return fmt.Sprintf("\t%s(&ctx);\n", entry.CName), nil
		}
		args := make([]string, entry.NArgs)
		for i := range args {
			args[i] = fmt.Sprintf("ctx.tapes[ctx.tape + %d]", i)
		}
		return fmt.Sprintf("\t%s(%s);\n", entry.CName, strings.Join(args, ", ")), nil
	}

	calleeSig, ok := lw.signatures[callee]
	if !ok {
		calleeSig, ok = lw.externs[callee]
		if !ok {
			return "", &UnknownCallError{Func: caller, Callee: callee}
		}
	}

	name := callee
	if name == "main" {
		name = mainMangledName
	}
	args := make([]string, calleeSig.NArgs)
	for i := range args {
		args[i] = fmt.Sprintf("ctx.tapes[ctx.tape + %d]", i)
	}
	return fmt.Sprintf("\t%s(%s);\n", name, strings.Join(args, ", ")), nil
}

func sortedRuntimeEntries(m map[string]RuntimeEntry) []RuntimeEntry {
	out := make([]RuntimeEntry, 0, len(m))
	for _, e := range m {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedSignatures(m map[string]FunctionSignature) []FunctionSignature {
	out := make([]FunctionSignature, 0, len(m))
	for _, s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// cDeclRe matches the head of a C function declaration or definition
// returning void. Only the return type is checked; the parameter list
// is captured as written, whatever its types.
var cDeclRe = regexp.MustCompile(`void\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(([^)]*)\)`)

// ParseCDeclarations scans hand-written C source for tape-convention
// function declarations and returns their signatures, keyed by name,
// so Call instructions can target functions supplied as .c inputs.
// Every void function counts, each comma-separated parameter standing
// for one tape; parameter types are not checked. The first declaration
// of a name wins; a name NewFunctionSignature rejects is skipped.
func ParseCDeclarations(src string) map[string]FunctionSignature {
	out := make(map[string]FunctionSignature)
	for _, m := range cDeclRe.FindAllStringSubmatch(src, -1) {
		name := m[1]
		params := strings.TrimSpace(m[2])
		nArgs := 0
		if params != "" && params != "void" {
			nArgs = strings.Count(params, ",") + 1
		}
		sig, err := NewFunctionSignature(name, nArgs)
		if err != nil {
			continue
		}
		if _, seen := out[name]; !seen {
			out[name] = sig
		}
	}
	return out
}
