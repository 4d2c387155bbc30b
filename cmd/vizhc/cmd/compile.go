package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vizh-lang/vizh"
	"github.com/vizh-lang/vizh/utils"
)

var (
	outputPath  string
	workers     int
	debugParser bool
	compileOnly bool
	quiet       bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <source...>",
	Short: "Parse, lower and link one or more vizh source images",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&outputPath, "output-file", "o", "", "output path (default a.out when linking)")
	compileCmd.Flags().IntVarP(&workers, "workers", "w", 0, "max concurrent source files (0 = NumCPU)")
	compileCmd.Flags().BoolVar(&debugParser, "debug-parser", false, "render an annotated PNG for files that fail to parse")
	compileCmd.Flags().BoolVarP(&compileOnly, "compile-only", "c", false, "compile to an object file, don't link")
	compileCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(_ *cobra.Command, args []string) error {
	cfg, err := vizh.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfgFile, err)
	}
	if workers > 0 {
		cfg.Workers = workers
	}

	toolchain := vizh.NewToolchain(cfg.LibDir)
	if cfg.CC != "" {
		toolchain.CC = cfg.CC
	}
	if err := toolchain.CheckVersion(); err != nil {
		return err
	}

	driver := vizh.NewDriver(newOCRRecognizer, toolchain)
	driver.Workers = cfg.Workers

	var results []vizh.FileResult
	for _, src := range args {
		info, err := os.Stat(src)
		if err != nil {
			return err
		}
		if info.IsDir() {
			dirResults, err := driver.ParseAll(src)
			if err != nil {
				return err
			}
			results = append(results, dirResults...)
			continue
		}

		switch ext := strings.ToLower(filepath.Ext(src)); ext {
		case ".c":
			data, err := os.ReadFile(src)
			if err != nil {
				return err
			}
			driver.ExtraCSources = append(driver.ExtraCSources, string(data))
		case ".o", ".obj":
			driver.ExtraObjects = append(driver.ExtraObjects, src)
		default:
			rec, err := newOCRRecognizer()
			if err != nil {
				return err
			}
			parser, err := vizh.NewParser(rec)
			if err != nil {
				return err
			}
			fn, parseErrs, err := parser.Parse(src)
			parser.Close()
			results = append(results, vizh.FileResult{Path: src, Func: fn, ParseErrs: parseErrs, Err: err})
		}
	}

	if debugParser || cfg.DebugParser {
		for _, r := range results {
			if len(r.ParseErrs) == 0 {
				continue
			}
			if err := renderParseFailure(r); err != nil {
				fmt.Fprintf(os.Stderr, "debug-parser: %v\n", err)
			}
		}
	}

	out := outputPath
	if out == "" {
		out = cfg.Output
	}
	if out == "" && compileOnly {
		out = vizh.DefaultObjectName(results)
	}
	if out == "" {
		out = vizh.DefaultOutputName()
	}

	showSpinner := !quiet && term.IsTerminal(int(os.Stderr.Fd()))
	verb := "linking"
	if compileOnly {
		verb = "compiling"
	}

	var spinner *utils.Spinner
	if showSpinner {
		spinner = utils.NewSpinner(
			utils.DecorateText("⚡ vizhc ", utils.StatusMessage)+utils.DecorateText("⇢ "+verb+"...", utils.DefaultMessage),
			time.Millisecond*80,
			true,
		)
		spinner.Start()
	}

	start := time.Now()
	var buildErrs []error
	if compileOnly {
		buildErrs, err = driver.CompileProgram(results, out)
	} else {
		buildErrs, err = driver.BuildProgram(results, out)
	}
	if err != nil || len(buildErrs) > 0 {
		if spinner != nil {
			spinner.StopMsg = utils.DecorateText("⚡ vizhc ⇢ build failed ✘\n", utils.ErrorMessage)
			spinner.Stop()
		}
		// Failures print even under --quiet: the flag only suppresses
		// informational output.
		for _, be := range buildErrs {
			fmt.Fprintln(os.Stderr, utils.DecorateText(be.Error(), utils.ErrorMessage))
		}
		if err != nil {
			return err
		}
		return fmt.Errorf("%d input file(s) failed to compile", len(buildErrs))
	}
	if spinner != nil {
		spinner.StopMsg = fmt.Sprintf(
			"%s wrote %s in %s\n",
			utils.DecorateText("⚡ vizhc ⇢ ✔", utils.SuccessMessage),
			out,
			utils.FormatTime(time.Since(start)),
		)
		spinner.Stop()
	} else if !quiet {
		fmt.Fprintf(os.Stderr, "wrote %s in %s\n", out, utils.FormatTime(time.Since(start)))
	}
	return nil
}

// renderParseFailure re-preprocesses a source image that failed to
// parse and writes an annotated PNG next to it, localising every
// ParseError to its offending contour's bounding box.
func renderParseFailure(r vizh.FileResult) error {
	pre, err := vizh.Preprocess(r.Path)
	if err != nil {
		return err
	}
	var bad []vizh.BoundingBox
	for _, pe := range r.ParseErrs {
		bad = append(bad, pe.Box)
	}
	return vizh.RenderDebugImage(pre.Body, nil, bad, r.Path+".debug.png")
}
