package etree

import (
	"encoding/xml"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/structguard/structguard"
)

// span is one maximal character-data run located by byte offsets in the
// source document. text holds the decoded run content.
type span struct {
	start int64
	end   int64
	kind  structguard.NodeKind
	text  string
}

// scanSpans tokenizes content and returns the byte extent of every text
// and tail run in document order. The spans line up one to one with the
// candidates from the element walk: both sides see the same token stream
// and classify runs the same way, so injection can edit by byte surgery
// and leave every other byte of the document exactly as it was.
func scanSpans(content string) ([]span, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		spans   []span
		depth   int
		prevEnd int64

		// classification for the next character-data run
		nextKind structguard.NodeKind
		nextOK   bool

		inRun    bool
		runOK    bool
		runKind  structguard.NodeKind
		runStart int64
		runEnd   int64
		runText  strings.Builder
	)

	closeRun := func() {
		if inRun && runOK {
			spans = append(spans, span{start: runStart, end: runEnd, kind: runKind, text: runText.String()})
		}
		inRun = false
		runText.Reset()
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}
		start := prevEnd
		prevEnd = dec.InputOffset()

		switch t := tok.(type) {
		case xml.CharData:
			if !inRun {
				inRun = true
				runOK = nextOK
				runKind = nextKind
				runStart = start
			}
			runEnd = prevEnd
			runText.Write(t)
		case xml.StartElement:
			closeRun()
			depth++
			nextKind = structguard.KindText
			nextOK = true
		case xml.EndElement:
			closeRun()
			depth--
			// a run after the root's end tag belongs to the document,
			// not to any element
			nextKind = structguard.KindTail
			nextOK = depth >= 1
		default:
			// comments, processing instructions, directives
			closeRun()
			nextOK = false
		}
	}
	closeRun()
	return spans, nil
}

// alignSpans pairs the offset scan with the element walk and fails with
// EINTERNAL if the two disagree about the document's runs.
func alignSpans(spans []span, cands []candidate) error {
	if len(spans) != len(cands) {
		return structguard.Errorf(structguard.EINTERNAL,
			"offset scan found %d character runs, document walk found %d", len(spans), len(cands))
	}
	for i := range cands {
		if spans[i].kind != cands[i].kind || spans[i].text != cands[i].text {
			return structguard.Errorf(structguard.EINTERNAL,
				"offset scan diverged from document walk at run %d (%s)", i, cands[i].path)
		}
	}
	return nil
}

// replacement is a byte-range substitution within the skeleton.
type replacement struct {
	start int
	end   int
	text  string
}

// applyEdits splices the edited nodes into the skeleton. For each edited
// node only the trimmed core of its run is replaced; the run's original
// leading and trailing whitespace bytes stay in place. Nodes extracted
// from CDATA sections are re-wrapped in CDATA, everything else is written
// as escaped character data.
func applyEdits(skeleton string, nodes []structguard.Node, candIndex []int, spans []span, edits map[int]string) string {
	repls := make([]replacement, 0, len(edits))
	for i, newCore := range edits {
		sp := spans[candIndex[i]]
		raw := skeleton[sp.start:sp.end]

		trimmedLeft := strings.TrimLeftFunc(raw, unicode.IsSpace)
		prefix := len(raw) - len(trimmedLeft)
		trimmed := strings.TrimRightFunc(trimmedLeft, unicode.IsSpace)
		suffix := len(trimmedLeft) - len(trimmed)

		var enc string
		if nodes[i].IsCDATA {
			enc = encodeCData(newCore)
		} else {
			enc = escapeText(newCore)
		}
		repls = append(repls, replacement{
			start: int(sp.start) + prefix,
			end:   int(sp.end) - suffix,
			text:  enc,
		})
	}
	sort.Slice(repls, func(i, j int) bool { return repls[i].start < repls[j].start })

	var sb strings.Builder
	sb.Grow(len(skeleton))
	prev := 0
	for _, r := range repls {
		sb.WriteString(skeleton[prev:r.start])
		sb.WriteString(r.text)
		prev = r.end
	}
	sb.WriteString(skeleton[prev:])
	return sb.String()
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r", "&#13;",
)

// escapeText escapes edited character data. Carriage returns become
// character references so they survive the parser's line-ending
// normalization on the next read.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// encodeCData wraps edited text in a CDATA section. Occurrences of the
// closing delimiter split the section; carriage returns are written as
// character references between sections.
func encodeCData(s string) string {
	s = strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
	s = strings.ReplaceAll(s, "\r", "]]>&#13;<![CDATA[")
	return "<![CDATA[" + s + "]]>"
}
