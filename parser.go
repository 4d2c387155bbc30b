package vizh

// Parser turns one vizh source image into a Function, end to end:
// preprocessing, signature-band OCR, contour extraction, shape
// classification and layout ordering.
type Parser struct {
	ocr *OCRAdapter
}

// NewParser builds a Parser bound to rec for signature and call-target
// recognition. Call Close when done with the parser to release rec's
// resources, if it holds any.
func NewParser(rec TextRecognizer) (*Parser, error) {
	adapter, err := NewOCRAdapter(rec)
	if err != nil {
		return nil, err
	}
	return &Parser{ocr: adapter}, nil
}

// Close releases the OCR adapter's resources.
func (p *Parser) Close() error {
	return p.ocr.Close()
}

// Parse compiles the image at path into a Function. If one or more
// shapes in the body could not be classified, Parse returns the
// accumulated ParseErrors instead of a Function — matching the
// original behaviour of refusing to emit a partial function when any
// shape is unrecognised.
func (p *Parser) Parse(path string) (*Function, []*ParseError, error) {
	pre, err := Preprocess(path)
	if err != nil {
		return nil, nil, err
	}

	nameText, err := p.ocr.Recognize(pre.Binary.Crop(pre.NameBox))
	if err != nil {
		return nil, nil, &OCRFailureError{Context: "function name", Box: pre.NameBox}
	}
	if nameText == "" {
		return nil, nil, &OCRFailureError{Context: "function name", Box: pre.NameBox}
	}

	argText, err := p.ocr.Recognize(pre.Binary.Crop(pre.ArgBox))
	if err != nil {
		return nil, nil, &OCRFailureError{Context: "argument count", Box: pre.ArgBox}
	}
	nArgs, err := ParseArgCount(argText, pre.ArgBox)
	if err != nil {
		return nil, nil, err
	}

	sig, err := NewFunctionSignature(nameText, nArgs)
	if err != nil {
		return nil, nil, err
	}

	contours := ExternalContours(pre.Body)
	classifier := NewShapeClassifier(pre.Body, p.ocr)

	var placed []placedInstruction
	var parseErrs []*ParseError
	for _, contour := range contours {
		instr, err := classifier.Classify(contour)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				parseErrs = append(parseErrs, pe)
				continue
			}
			return nil, nil, err
		}
		if instr == nil {
			// Comment box: not an instruction.
			continue
		}
		placed = append(placed, placedInstruction{box: BoundingRect(contour), instr: *instr})
	}

	if len(parseErrs) > 0 {
		return nil, parseErrs, nil
	}

	instructions := Layout(placed)
	fn, err := NewFunction(sig, instructions)
	if err != nil {
		return nil, nil, err
	}
	return fn, nil, nil
}
