package asmfile

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/ethteck/mips-to-c/diag"
	"github.com/ethteck/mips-to-c/operand"
)

var (
	blockCommentRe = regexp.MustCompile(`/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`#.*$`)
	localLabelRe   = regexp.MustCompile(`^\.([A-Za-z0-9_]+):$`)
)

// Assemble reads r line by line and assembles it into a Program, per the
// line classifier/program assembler of spec.md §4.2. Fatal structural
// problems (an instruction encountered before any glabel has opened a
// function) are returned as the error; recoverable issues are not
// currently possible at this stage, but the Bag is threaded through for
// symmetry with the rest of the pipeline and future per-line warnings.
func Assemble(r io.Reader, filename string) (*Program, *diag.Bag, error) {
	bag := &diag.Bag{}
	program := newProgram(filename)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComments(scanner.Text())
		if line == "" {
			continue
		}

		pos := diag.Position{Filename: filename, Line: lineNo}

		switch {
		case localLabelRe.MatchString(line):
			m := localLabelRe.FindStringSubmatch(line)
			if program.current == nil {
				return nil, bag, diag.NewError(pos, diag.StageParse,
					"label outside of any function: "+line)
			}
			program.current.newLabel(m[1])

		case strings.HasPrefix(line, "."):
			// Assembler directive; ignored per spec.md §4.2 step 4.

		case strings.HasPrefix(line, "glabel "):
			name := strings.TrimSpace(strings.Fields(line)[1])
			program.newFunction(name)

		default:
			if program.current == nil {
				return nil, bag, diag.NewError(pos, diag.StageParse,
					"instruction outside of any function: "+line)
			}
			inst, err := parseInstruction(line)
			if err != nil {
				return nil, bag, diag.NewError(pos, diag.StageParse, err.Error())
			}
			program.current.newInstruction(inst)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, bag, err
	}

	program.current = nil
	return program, bag, nil
}

// stripComments removes /* ... */ and trailing # ... comments, then trims.
func stripComments(line string) string {
	line = blockCommentRe.ReplaceAllString(line, "")
	line = lineCommentRe.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// parseInstruction splits mnemonic from a comma-separated operand list
// and parses each operand with package operand, dropping empty results.
func parseInstruction(line string) (Instruction, error) {
	mnemonic, rest, _ := strings.Cut(line, " ")
	mnemonic = strings.TrimSpace(mnemonic)

	var args []operand.Argument
	if strings.TrimSpace(rest) != "" {
		for _, part := range strings.Split(rest, ",") {
			arg, err := operand.Parse(strings.TrimSpace(part))
			if err != nil {
				return Instruction{}, err
			}
			if arg != nil {
				args = append(args, arg)
			}
		}
	}

	return Instruction{Mnemonic: mnemonic, Args: args}, nil
}
