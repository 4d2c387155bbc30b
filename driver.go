package vizh

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/vizh-lang/vizh/utils"
)

// FileResult is one source image's outcome: either a parsed Function,
// or the error(s) that stopped parsing.
type FileResult struct {
	Path      string
	Func      *Function
	ParseErrs []*ParseError
	Err       error
}

// Driver orchestrates parsing every source image in a build, then
// lowering and linking the result into one executable. Parallelism is
// at the granularity of whole source files, but parser instances are
// per worker goroutine, not per file: each worker builds one Parser
// (and so one OCRAdapter/cache) and reuses it for every file it takes,
// so a worker's OCR cache carries over from one file to the next.
// Workers share no mutable state with each other.
type Driver struct {
	NewRecognizer func() (TextRecognizer, error)
	Workers       int
	Toolchain     *Toolchain

	// ExtraCSources holds the raw text of hand-written .c inputs
	// passed on the command line alongside image sources; it is
	// concatenated after the generated translation unit.
	ExtraCSources []string
	// ExtraObjects holds paths to pre-built .o/.obj inputs passed on
	// the command line; they're forwarded straight to the linker.
	ExtraObjects []string
}

// validExtensions lists the image formats the preprocessor can decode.
var validExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// NewDriver builds a Driver. recognizerFactory is called once per
// worker goroutine to build that worker's TextRecognizer; the workers
// call it concurrently.
func NewDriver(recognizerFactory func() (TextRecognizer, error), toolchain *Toolchain) *Driver {
	return &Driver{NewRecognizer: recognizerFactory, Toolchain: toolchain}
}

// ParseAll parses every supported source image under srcDir
// concurrently and returns one FileResult per file, adapted from the
// teacher's walkDir/consumer worker-pool pattern in exec.go.
func (d *Driver) ParseAll(srcDir string) ([]FileResult, error) {
	workers := d.Workers
	if workers <= 0 || workers > runtime.NumCPU() {
		workers = runtime.NumCPU()
	}

	done := make(chan struct{})
	defer close(done)

	paths, walkErrc := walkSourceDir(done, srcDir)

	results := make(chan FileResult)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			d.parseWorker(done, paths, results)
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var out []FileResult
	for res := range results {
		out = append(out, res)
	}
	if err := <-walkErrc; err != nil {
		return out, err
	}
	return out, nil
}

func (d *Driver) parseWorker(done <-chan struct{}, paths <-chan string, results chan<- FileResult) {
	rec, err := d.NewRecognizer()
	var parser *Parser
	if err == nil {
		parser, err = NewParser(rec)
	}
	if err != nil {
		// Keep draining paths so the walk goroutine isn't left
		// blocked, reporting the construction failure per file.
		for path := range paths {
			select {
			case <-done:
				return
			case results <- FileResult{Path: path, Err: err}:
			}
		}
		return
	}
	defer parser.Close()

	for path := range paths {
		fn, parseErrs, err := parser.Parse(path)
		res := FileResult{Path: path, Func: fn, ParseErrs: parseErrs, Err: err}
		select {
		case <-done:
			return
		case results <- res:
		}
	}
}

// walkSourceDir recursively finds every regular file under src whose
// extension is a supported image format.
func walkSourceDir(done <-chan struct{}, src string) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		defer close(pathChan)
		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !utils.Contains(validExtensions, strings.ToLower(filepath.Ext(path))) {
				return nil
			}
			select {
			case <-done:
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// BuildProgram lowers every successfully parsed function from results
// into one C translation unit and links it into outPath. Any file
// that failed to parse is reported but does not stop the remaining
// functions from being compiled, matching the original driver's
// per-file error aggregation: a single malformed source image does
// not abort an entire multi-file build.
func (d *Driver) BuildProgram(results []FileResult, outPath string) ([]error, error) {
	return d.buildProgram(results, outPath, false)
}

// CompileProgram lowers and compiles results to a single object file
// at outPath without linking, for the CLI's -c/--compile-only mode.
func (d *Driver) CompileProgram(results []FileResult, outPath string) ([]error, error) {
	return d.buildProgram(results, outPath, true)
}

func (d *Driver) buildProgram(results []FileResult, outPath string, compileOnly bool) ([]error, error) {
	var buildErrs []error
	signatures := make(map[string]FunctionSignature)
	var funcs []*Function

	for _, r := range results {
		if r.Err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("%s: %w", r.Path, r.Err))
			continue
		}
		if len(r.ParseErrs) > 0 {
			for _, pe := range r.ParseErrs {
				buildErrs = append(buildErrs, fmt.Errorf("%s: %w", r.Path, pe))
			}
			continue
		}
		funcs = append(funcs, r.Func)
		signatures[r.Func.Signature.Name] = r.Func.Signature
	}

	if len(funcs) == 0 && len(d.ExtraCSources) == 0 && len(d.ExtraObjects) == 0 {
		return buildErrs, errors.New("vizh: no function compiled successfully, nothing to link")
	}

	hasMain := false
	for _, fn := range funcs {
		if fn.Signature.Name == "main" {
			hasMain = true
			break
		}
	}

	// Hand-written .c inputs contribute externs: any tape-convention
	// declaration they carry becomes a valid Call target.
	externs := make(map[string]FunctionSignature)
	for _, extra := range d.ExtraCSources {
		for name, sig := range ParseCDeclarations(extra) {
			externs[name] = sig
		}
	}

	var cSource string
	if len(funcs) > 0 {
		lowerer, err := NewLowerer(signatures, externs)
		if err != nil {
			return buildErrs, err
		}
		cSource, err = lowerer.Compile(funcs)
		if err != nil {
			return buildErrs, err
		}
	}
	for _, extra := range d.ExtraCSources {
		cSource += "\n" + extra
	}

	// The output carries a blake2b fingerprint of the C that produced
	// it; when the regenerated C matches and the artifact still exists,
	// the toolchain invocation is skipped entirely. Builds that mix in
	// pre-built objects aren't cached: their contents can change
	// without the generated C changing.
	sumPath := outPath + ".sum"
	cacheable := len(d.ExtraObjects) == 0
	if cacheable {
		if _, statErr := os.Stat(outPath); statErr == nil && FingerprintMatches(sumPath, []byte(cSource)) {
			return buildErrs, nil
		}
	}

	if compileOnly {
		if len(d.ExtraObjects) > 0 {
			return buildErrs, errors.New("vizh: --compile-only doesn't link, so pre-built .o/.obj inputs have nothing to join")
		}
		if err := d.Toolchain.CompileOnly(cSource, outPath); err != nil {
			return buildErrs, err
		}
		return buildErrs, WriteFingerprint(sumPath, []byte(cSource))
	}

	if err := d.Toolchain.Build(cSource, outPath, hasMain, d.ExtraObjects...); err != nil {
		return buildErrs, err
	}
	if !cacheable {
		return buildErrs, nil
	}
	return buildErrs, WriteFingerprint(sumPath, []byte(cSource))
}

// DefaultOutputName picks the output path when the user didn't pass
// -o/--output-file explicitly. When linking, that's "a.out", or
// "a.exe" on Windows.
func DefaultOutputName() string {
	if runtime.GOOS == "windows" {
		return "a.exe"
	}
	return "a.out"
}

// DefaultObjectName picks the compile-only (-c) output object name:
// the sole input's function name when exactly one image was compiled
// successfully, otherwise the generic "vizh.o".
func DefaultObjectName(results []FileResult) string {
	if len(results) == 1 && results[0].Func != nil {
		return results[0].Func.Signature.Name + ".o"
	}
	return "vizh.o"
}
