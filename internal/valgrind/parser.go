package valgrind

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"go.uber.org/zap"
)

// ParserState scopes stack frame attribution to the most recently opened record.
type ParserState int

const (
	StateIdle ParserState = iota
	StateInLeak
	StateInErrorContext
)

func (s ParserState) String() string {
	switch s {
	case StateInLeak:
		return "in-leak"
	case StateInErrorContext:
		return "in-error-context"
	default:
		return "idle"
	}
}

const (
	summaryMarker     = "ERROR SUMMARY:"
	suppressionMarker = "used_suppression:"
	uninitMarker      = "Conditional jump or move depends on uninitialised value"

	// Parse reads longer lines to their end but treats them as blank.
	maxLineSize = 1024 * 1024
	readBufSize = 64 * 1024
)

var (
	// ==81658== ERROR SUMMARY: 12 errors from 5 contexts (suppressed: 2 from 2)
	summaryPattern = regexp.MustCompile(`(\d+) errors from (\d+) contexts.*suppressed: (\d+)`)

	// --81658-- used_suppression:      3 libc-cond suppressed: 1,024 bytes in 4 blocks
	suppressionPattern = regexp.MustCompile(`suppressed: ([\d,]+) bytes in ([\d,]+) blocks`)

	// ==81658== 48 bytes in 2 blocks are definitely lost in loss record 3 of 10
	// ==81658== 1,120 (64 direct, 1,056 indirect) bytes in 1 blocks are definitely lost in loss record 9 of 10
	leakHeaderPattern = regexp.MustCompile(`^==\d+== ([\d,]+)(?: \([\d,]+ direct, [\d,]+ indirect\))? bytes in ([\d,]+) blocks? are (.+?) in loss record`)

	// ==81658== 3 errors in context 2 of 5:
	contextHeaderPattern = regexp.MustCompile(`^==\d+== (\d+) errors? in context (\d+) of (\d+):`)

	// ==81658==    at 0x4C2FB0F: malloc (vg_replace_malloc.c:299)
	framePattern = regexp.MustCompile(`at 0x[0-9A-Fa-f]+: (.+?) \((.+?)\)`)

	// ==81658==
	terminatorPattern = regexp.MustCompile(`^==\d+==$`)
)

// accessErrorMarkers is checked in order; the first marker found on a line wins.
var accessErrorMarkers = []struct {
	marker string
	kind   string
}{
	{"Invalid read", KindInvalidRead},
	{"Invalid write", KindInvalidWrite},
	{"Invalid free", KindInvalidFree},
	{"Mismatched free", KindMismatchedFree},
}

type ParseError struct {
	Line    string
	LineNum int
	Err     error
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v", e.LineNum, e.Err)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

type LineParser interface {
	CanParse(line string, context *ParseContext) bool
	Parse(line string, context *ParseContext) error
}

type ParseContext struct {
	Findings   *FindingSet
	State      ParserState
	LineNumber int

	// set by an uninitialised-value diagnostic; the next line is checked for its frame
	pendingUninit bool
}

func NewParseContext() *ParseContext {
	return &ParseContext{
		Findings: NewFindingSet(),
		State:    StateIdle,
	}
}

// ==== Header parsers: the first match consumes the line ====

type SummaryParser struct{}

func (sp *SummaryParser) CanParse(line string, context *ParseContext) bool {
	return strings.Contains(line, summaryMarker) && summaryPattern.MatchString(line)
}

func (sp *SummaryParser) Parse(line string, context *ParseContext) error {
	matches := summaryPattern.FindStringSubmatch(line)
	if len(matches) < 4 {
		return nil
	}

	values, err := atoiAll(matches[1:4])
	if err != nil {
		return fmt.Errorf("invalid error summary: %w", err)
	}

	context.Findings.Summary = &ErrorSummary{
		Errors:     values[0],
		Contexts:   values[1],
		Suppressed: values[2],
	}
	return nil
}

type SuppressionParser struct{}

func (sp *SuppressionParser) CanParse(line string, context *ParseContext) bool {
	return strings.Contains(line, suppressionMarker) && suppressionPattern.MatchString(line)
}

func (sp *SuppressionParser) Parse(line string, context *ParseContext) error {
	matches := suppressionPattern.FindStringSubmatch(line)
	if len(matches) < 3 {
		return nil
	}

	bytes, err := ParseGroupedInt(matches[1])
	if err != nil {
		return fmt.Errorf("invalid suppressed bytes: %w", err)
	}
	blocks, err := parseCount(matches[2])
	if err != nil {
		return fmt.Errorf("invalid suppressed blocks: %w", err)
	}

	context.Findings.SuppressedBytes += bytes
	context.Findings.SuppressedBlocks += blocks
	return nil
}

type LeakHeaderParser struct{}

func (lp *LeakHeaderParser) CanParse(line string, context *ParseContext) bool {
	return leakHeaderPattern.MatchString(line)
}

func (lp *LeakHeaderParser) Parse(line string, context *ParseContext) error {
	matches := leakHeaderPattern.FindStringSubmatch(line)
	if len(matches) < 4 {
		return nil
	}

	bytes, err := ParseGroupedInt(matches[1])
	if err != nil {
		return fmt.Errorf("invalid leak size: %w", err)
	}
	blocks, err := parseCount(matches[2])
	if err != nil {
		return fmt.Errorf("invalid leak block count: %w", err)
	}

	context.Findings.addLeak(LeakRecord{
		Bytes:  bytes,
		Blocks: blocks,
		Kind:   matches[3],
		Trace:  []StackFrame{},
	})
	context.State = StateInLeak
	return nil
}

type ErrorContextParser struct{}

func (ep *ErrorContextParser) CanParse(line string, context *ParseContext) bool {
	return contextHeaderPattern.MatchString(line)
}

func (ep *ErrorContextParser) Parse(line string, context *ParseContext) error {
	matches := contextHeaderPattern.FindStringSubmatch(line)
	if len(matches) < 4 {
		return nil
	}

	values, err := atoiAll(matches[1:3])
	if err != nil {
		return fmt.Errorf("invalid error context: %w", err)
	}

	context.Findings.Contexts.Set(values[1], values[0])
	context.State = StateInErrorContext
	return nil
}

// ==== Content parsers: every match applies ====

type UninitValueParser struct{}

func (up *UninitValueParser) CanParse(line string, context *ParseContext) bool {
	return strings.Contains(line, uninitMarker)
}

func (up *UninitValueParser) Parse(line string, context *ParseContext) error {
	context.Findings.ErrorKinds.Inc(KindUninitialized)
	context.pendingUninit = true
	return nil
}

// attributeUninit records the frame that follows an uninitialised-value diagnostic.
// Only the first frame line is captured.
func attributeUninit(line string, context *ParseContext) {
	context.pendingUninit = false

	matches := framePattern.FindStringSubmatch(line)
	if len(matches) < 3 {
		return
	}

	function, location := matches[1], matches[2]
	context.Findings.UninitFindings = append(context.Findings.UninitFindings, UninitFinding{
		Function: function,
		Location: location,
	})
	context.Findings.recordFrame(function, location)
}

type AccessErrorParser struct{}

func (ap *AccessErrorParser) CanParse(line string, context *ParseContext) bool {
	return ap.kindOf(line) != ""
}

func (ap *AccessErrorParser) Parse(line string, context *ParseContext) error {
	if kind := ap.kindOf(line); kind != "" {
		context.Findings.ErrorKinds.Inc(kind)
	}
	return nil
}

func (ap *AccessErrorParser) kindOf(line string) string {
	for _, m := range accessErrorMarkers {
		if strings.Contains(line, m.marker) {
			return m.kind
		}
	}
	return ""
}

// LeakFrameParser appends backtrace frames to the open leak record.
//
// StateInLeak is only entered by LeakHeaderParser after appending a record, so
// the last leak is always the one that owns the frame. Frames inside an error
// context, or before any leak header, are not captured.
type LeakFrameParser struct{}

func (fp *LeakFrameParser) CanParse(line string, context *ParseContext) bool {
	return context.State == StateInLeak &&
		strings.HasPrefix(line, "==") &&
		strings.Contains(line, "at 0x")
}

func (fp *LeakFrameParser) Parse(line string, context *ParseContext) error {
	matches := framePattern.FindStringSubmatch(line)
	if len(matches) < 3 {
		return nil
	}

	leaks := context.Findings.Leaks
	if len(leaks) == 0 {
		return fmt.Errorf("frame outside of any leak record")
	}

	function, location := matches[1], matches[2]
	last := &leaks[len(leaks)-1]
	last.Trace = append(last.Trace, StackFrame{Function: function, Location: location})
	context.Findings.recordFrame(function, location)
	return nil
}

type TerminatorParser struct{}

func (tp *TerminatorParser) CanParse(line string, context *ParseContext) bool {
	return terminatorPattern.MatchString(line)
}

func (tp *TerminatorParser) Parse(line string, context *ParseContext) error {
	context.State = StateIdle
	return nil
}

type Parser struct {
	headers []LineParser
	content []LineParser
	logger  *zap.Logger
}

type Option func(*Parser)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		headers: []LineParser{
			&SummaryParser{},
			&SuppressionParser{},
			&LeakHeaderParser{},
			&ErrorContextParser{},
		},
		content: []LineParser{
			&UninitValueParser{},
			&AccessErrorParser{},
			&LeakFrameParser{},
			&TerminatorParser{},
		},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse streams memcheck output from r. Unrecognised, malformed or oversized
// lines are skipped; the only error returned is a read failure, together with
// everything parsed up to that point.
func (p *Parser) Parse(r io.Reader) (*FindingSet, error) {
	context := NewParseContext()
	reader := bufio.NewReaderSize(r, readBufSize)

	var line []byte
	oversized := false
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return context.Findings, fmt.Errorf("read error after line %d: %w", context.LineNumber, err)
		}

		if !oversized && len(line)+len(chunk) > maxLineSize {
			oversized = true
			line = line[:0]
		}
		if !oversized {
			line = append(line, chunk...)
		}
		if isPrefix {
			continue
		}

		if oversized {
			p.logger.Debug("skipping oversized line", zap.Int("line", context.LineNumber+1))
			p.parseLine("", context)
		} else {
			p.parseLine(string(line), context)
		}
		line = line[:0]
		oversized = false
	}

	p.logResult(context)
	return context.Findings, nil
}

// ParseString parses a complete log held in memory. It never fails.
func (p *Parser) ParseString(text string) *FindingSet {
	context := NewParseContext()
	for line := range strings.Lines(text) {
		p.parseLine(line, context)
	}

	p.logResult(context)
	return context.Findings
}

func (p *Parser) parseLine(raw string, context *ParseContext) {
	context.LineNumber++
	line := strings.TrimSpace(raw)

	if context.pendingUninit {
		attributeUninit(line, context)
	}

	for _, parser := range p.headers {
		if parser.CanParse(line, context) {
			p.apply(parser, line, context)
			return
		}
	}

	for _, parser := range p.content {
		if parser.CanParse(line, context) {
			p.apply(parser, line, context)
		}
	}
}

func (p *Parser) apply(parser LineParser, line string, context *ParseContext) {
	if err := parser.Parse(line, context); err != nil {
		p.logger.Debug("skipping malformed record",
			zap.Error(ParseError{Line: line, LineNum: context.LineNumber, Err: err}))
	}
}

func (p *Parser) logResult(context *ParseContext) {
	fs := context.Findings
	p.logger.Debug("parsed memcheck output",
		zap.Int("lines", context.LineNumber),
		zap.Int("leaks", len(fs.Leaks)),
		zap.Int64("bytesLeaked", fs.TotalBytesLeaked),
		zap.Int("uninitFindings", len(fs.UninitFindings)),
		zap.Int("contexts", fs.Contexts.Len()),
		zap.Bool("summarySeen", fs.Summary != nil),
	)
}

// ParseGroupedInt parses a non-negative integer that may carry thousands separators ("1,024").
func ParseGroupedInt(s string) (int64, error) {
	return strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
}

// parseCount is ParseGroupedInt narrowed to int without silent wraparound.
func parseCount(s string) (int, error) {
	n, err := ParseGroupedInt(s)
	if err != nil {
		return 0, err
	}
	return safecast.Conv[int](n)
}

func atoiAll(values []string) ([]int, error) {
	out := make([]int, 0, len(values))
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
