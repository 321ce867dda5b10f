package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexUnterminatedRawString    Code = 1004
	LexUnterminatedChar         Code = 1005
	LexBadRawDelimiter          Code = 1006

	// Include directives
	IncInfo                    Code = 2000
	IncMalformedDirective      Code = 2001
	IncComputedInclude         Code = 2002
	IncUnbalancedConditional   Code = 2003
	IncUnterminatedConditional Code = 2004

	// Resolution
	ResInfo            Code = 3000
	ResAmbiguousSymbol Code = 3001
	ResDialectGuessed  Code = 3002

	// IO
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002
	IOStalePlan     Code = 4003

	// Configuration
	CfgInfo       Code = 5000
	CfgUnknownKey Code = 5001

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexUnterminatedRawString:    "Unterminated raw string literal",
		LexUnterminatedChar:         "Unterminated character literal",
		LexBadRawDelimiter:          "Invalid raw string delimiter",
		IncInfo:                     "Include information",
		IncMalformedDirective:       "Malformed include directive",
		IncComputedInclude:          "Computed include is not analysed",
		IncUnbalancedConditional:    "Unbalanced conditional directive",
		IncUnterminatedConditional:  "Conditional directive is never closed",
		ResInfo:                     "Resolution information",
		ResAmbiguousSymbol:          "Ambiguous symbol without preferred header",
		ResDialectGuessed:           "Dialect inferred from content",
		IOLoadFileError:             "I/O load file error",
		IOWriteError:                "I/O write file error",
		IOStalePlan:                 "File changed since the plan was built",
		CfgInfo:                     "Configuration information",
		CfgUnknownKey:               "Unknown configuration key",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("INC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
