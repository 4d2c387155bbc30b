/*
Package vizh implements a compiler toolchain for a visual esoteric
programming language whose source files are raster images. Each image
encodes a single function: a signature band (name and argument count,
recovered via OCR) followed by a body of geometric shapes — arrows,
triangles, braces, plus/minus signs and labelled circles — that are
recognised, classified and lowered to portable C.

The package covers the core of the toolchain: turning pixels into an
intermediate representation (see Function, Instruction) and lowering
that representation to C (see Lowerer). Driving an external C compiler
and linker is handled by the Driver type, a thin wrapper around the
system toolchain.

A minimal integration looks like:

	package main

	import "github.com/vizh-lang/vizh"

	func main() {
		rec := myOCRImplementation{}
		p, err := vizh.NewParser(rec)
		if err != nil {
			panic(err)
		}
		defer p.Close()

		fn, errs, err := p.Parse("add.png")
		if err != nil {
			panic(err)
		}
		if len(errs) > 0 {
			// errs carry the offending contour's bounding box
		}
	}

The command line interface is provided by cmd/vizhc; run `vizhc --help`
for the supported subcommands.
*/
package vizh
