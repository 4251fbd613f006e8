package directory

import (
	"bufio"
	"io"
	"strings"

	"family_directory/internal/models"
)

// Break separates the sub-lines of one entry on its output line.
const Break = "<BREAK>"

type Printer struct {
	w io.Writer
	// ExpandBreaks writes real newlines instead of Break.
	ExpandBreaks bool
}

func NewPrinter(w io.Writer, expandBreaks bool) *Printer {
	return &Printer{w: w, ExpandBreaks: expandBreaks}
}

func (p *Printer) Print(entries []models.Entry) error {
	sep := Break
	if p.ExpandBreaks {
		sep = "\n"
	}
	bw := bufio.NewWriter(p.w)
	for _, e := range entries {
		if _, err := bw.WriteString(strings.Join(e.Lines, sep) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
