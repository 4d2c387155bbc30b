package vizh

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// InstructionKind is a closed enumeration of every instruction the
// language supports. All variants are payload-less except Call, which
// carries a callee name.
type InstructionKind int

const (
	Left InstructionKind = iota
	Right
	Up
	Down
	Inc
	Dec
	Read
	Write
	LoopStart
	LoopEnd
	Call
)

func (k InstructionKind) String() string {
	switch k {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Inc:
		return "Inc"
	case Dec:
		return "Dec"
	case Read:
		return "Read"
	case Write:
		return "Write"
	case LoopStart:
		return "LoopStart"
	case LoopEnd:
		return "LoopEnd"
	case Call:
		return "Call"
	default:
		return fmt.Sprintf("InstructionKind(%d)", int(k))
	}
}

// Instruction is an InstructionKind plus, for Call, its callee name.
// Instructions are immutable once produced by the parser.
type Instruction struct {
	kind   InstructionKind
	callee string
}

// NewInstruction builds a payload-less instruction. Passing Call is an
// error; use NewCall instead.
func NewInstruction(kind InstructionKind) (Instruction, error) {
	if kind == Call {
		return Instruction{}, errors.New("vizh: Call instructions require a callee name, use NewCall")
	}
	return Instruction{kind: kind}, nil
}

// NewCall builds a Call instruction targeting the given callee. The
// name must be non-empty.
func NewCall(callee string) (Instruction, error) {
	callee = strings.TrimSpace(callee)
	if callee == "" {
		return Instruction{}, errors.New("vizh: Call instruction requires a non-empty callee name")
	}
	return Instruction{kind: Call, callee: callee}, nil
}

// Kind reports the instruction's variant.
func (i Instruction) Kind() InstructionKind { return i.kind }

// Callee returns the callee name; it is only meaningful when
// Kind() == Call.
func (i Instruction) Callee() string { return i.callee }

func (i Instruction) String() string {
	if i.kind == Call {
		return fmt.Sprintf("Call(%s);", i.callee)
	}
	return i.kind.String() + ";"
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// FunctionSignature is a function's name and its tape-argument count.
type FunctionSignature struct {
	Name  string
	NArgs int
}

// NewFunctionSignature validates name against the identifier grammar
// and rejects a negative argument count.
func NewFunctionSignature(name string, nArgs int) (FunctionSignature, error) {
	if !identifierRe.MatchString(name) {
		return FunctionSignature{}, errors.Errorf("vizh: %q is not a valid function identifier", name)
	}
	if nArgs < 0 {
		return FunctionSignature{}, errors.Errorf("vizh: argument count must be nonnegative, got %d", nArgs)
	}
	return FunctionSignature{Name: name, NArgs: nArgs}, nil
}

// CDecl renders the signature as the equivalent C function declaration,
// e.g. "void add(uint8_t* arg0, uint8_t* arg1)".
func (s FunctionSignature) CDecl() string {
	args := make([]string, s.NArgs)
	for n := range args {
		args[n] = fmt.Sprintf("uint8_t* arg%d", n)
	}
	return fmt.Sprintf("void %s(%s)", s.Name, strings.Join(args, ", "))
}

// Function is a signature plus its ordered instruction stream.
type Function struct {
	Signature    FunctionSignature
	Instructions []Instruction
}

// NewFunction validates that loop brackets are balanced before
// returning a Function; see UnbalancedLoopsError.
func NewFunction(sig FunctionSignature, instrs []Instruction) (*Function, error) {
	depth := 0
	for _, instr := range instrs {
		switch instr.Kind() {
		case LoopStart:
			depth++
		case LoopEnd:
			depth--
			if depth < 0 {
				return nil, &UnbalancedLoopsError{Func: sig.Name}
			}
		}
	}
	if depth != 0 {
		return nil, &UnbalancedLoopsError{Func: sig.Name}
	}
	return &Function{Signature: sig, Instructions: instrs}, nil
}

// Rename changes the function's name in place, preserving its argument
// count. Used exactly once per compilation unit to mangle "main".
func (f *Function) Rename(name string) {
	f.Signature.Name = name
}

// Dump renders the function as a compact human-readable listing, for
// debugging: "<signature> {\n\t<instr>\n...\n}".
func (f *Function) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s {", f.Signature.CDecl())
	for _, instr := range f.Instructions {
		fmt.Fprintf(&b, "\n\t%s", instr)
	}
	b.WriteString("\n}")
	return b.String()
}
