package vizh

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"runtime"

	"github.com/blang/semver/v4"
	"github.com/pkg/errors"
)

// minCCompilerVersion is the lowest cc/clang/gcc version the toolchain
// driver will accept; older compilers have been observed to mishandle
// the goto-based loop codegen Lowerer emits.
var minCCompilerVersion = semver.MustParse("7.0.0")

// Toolchain drives an external C compiler and linker to turn generated
// C into a native executable, linking against libv.
type Toolchain struct {
	// CC is the compiler/linker executable to invoke, e.g. "cc",
	// "gcc", "clang". Defaults to "cc" when empty.
	CC string
	// LibDir holds libv's static archive and startup object, built
	// ahead of time from libv/libv.c and libv/crtv.c.
	LibDir string
}

// NewToolchain builds a Toolchain that shells out to cc.
func NewToolchain(libDir string) *Toolchain {
	return &Toolchain{CC: "cc", LibDir: libDir}
}

// libvArchiveName and crtvObjectName are platform-conditioned: MSVC
// toolchains name static libraries and objects differently from
// Unix-style toolchains.
func (t *Toolchain) libvArchiveName() string {
	if runtime.GOOS == "windows" {
		return "libv.lib"
	}
	return "libv.a"
}

func (t *Toolchain) crtvObjectName() string {
	if runtime.GOOS == "windows" {
		return "crtv.obj"
	}
	return "crtv.o"
}

// CheckVersion runs `cc --version` and rejects compilers older than
// minCCompilerVersion. Unparseable version output is allowed through:
// it usually means a compiler wrapper (ccache, distcc) that doesn't
// print a plain semver, not an actually-too-old compiler.
func (t *Toolchain) CheckVersion() error {
	cc := t.cc()
	out, err := exec.Command(cc, "--version").CombinedOutput()
	if err != nil {
		return &ToolchainError{Stage: "version check", Output: string(out)}
	}

	v, ok := parseCompilerVersion(string(out))
	if !ok {
		return nil
	}
	if v.LT(minCCompilerVersion) {
		return errors.Errorf("vizh: %s version %s is older than the minimum supported %s", cc, v, minCCompilerVersion)
	}
	return nil
}

var versionRe = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)`)

func parseCompilerVersion(versionOutput string) (semver.Version, bool) {
	m := versionRe.FindStringSubmatch(versionOutput)
	if m == nil {
		return semver.Version{}, false
	}
	v, err := semver.Parse(fmt.Sprintf("%s.%s.%s", m[1], m[2], m[3]))
	if err != nil {
		return semver.Version{}, false
	}
	return v, true
}

// Build compiles cSource into the executable at outPath, linking
// against libv. linkCrtv is true exactly when the compilation unit
// defines vizh_main (i.e. the source program had a function named
// "main"); otherwise the generated object is a library with no entry
// point and crtv.o is omitted.
func (t *Toolchain) Build(cSource, outPath string, linkCrtv bool, extraObjects ...string) error {
	cc := t.cc()

	args := []string{"-O3", "-I", t.LibDir, "-x", "c", "-", "-o", outPath}
	args = append(args, extraObjects...)
	args = append(args, "-L", t.LibDir, "-lv")
	if linkCrtv {
		args = append(args, t.LibDir+"/"+t.crtvObjectName())
	}

	cmd := exec.Command(cc, args...)
	cmd.Stdin = bytes.NewBufferString(cSource)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ToolchainError{Stage: "compile+link", Output: stderr.String()}
	}
	return nil
}

// CompileOnly emits an object file at outPath without linking, for
// the CLI's -c/--compile-only mode. No libv or crtv is attached; the
// object is left for a later, separate link step.
func (t *Toolchain) CompileOnly(cSource, outPath string) error {
	cc := t.cc()

	args := []string{"-O3", "-I", t.LibDir, "-x", "c", "-c", "-", "-o", outPath}

	cmd := exec.Command(cc, args...)
	cmd.Stdin = bytes.NewBufferString(cSource)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &ToolchainError{Stage: "compile", Output: stderr.String()}
	}
	return nil
}

func (t *Toolchain) cc() string {
	if t.CC == "" {
		return "cc"
	}
	return t.CC
}
