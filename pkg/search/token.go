package search

// Kind identifies the type of a lexical token.
type Kind int

const (
	// TokAnd matches `AND`, `&&` or `,`.
	TokAnd Kind = iota
	// TokOr matches `OR` or `||`.
	TokOr
	// TokNot matches `NOT`, `!` or `-`.
	TokNot
	// TokLparen matches `(`.
	TokLparen
	// TokRparen matches `)`.
	TokRparen
	// TokBoost matches `^`.
	TokBoost
	// TokFuzz matches `~`.
	TokFuzz
	// TokQuote matches `"`.
	TokQuote
	// TokFloat matches a real number literal like `1234.5678`.
	TokFloat
	// TokInteger matches a decimal literal like `1234`.
	TokInteger
	// TokBoolean matches `true` or `false`, case-insensitively.
	TokBoolean
	// TokIpCidr matches an IPv4 or IPv6 address with an optional prefix.
	TokIpCidr
	// TokAbsoluteDate4Digit matches a 4-digit year.
	TokAbsoluteDate4Digit
	// TokAbsoluteDate2Digit matches a 2-digit month, day, hour, minute
	// or second.
	TokAbsoluteDate2Digit
	// TokAbsoluteDateHyphen matches the `-` between date components.
	TokAbsoluteDateHyphen
	// TokAbsoluteDateColon matches the `:` between time components.
	TokAbsoluteDateColon
	// TokAbsoluteDateTimeSep matches the RFC3339 date/time separator,
	// `T` or a space.
	TokAbsoluteDateTimeSep
	// TokAbsoluteDateZulu matches `Z`.
	TokAbsoluteDateZulu
	// TokAbsoluteDateOffsetDirection matches `+` or `-`.
	TokAbsoluteDateOffsetDirection
	// TokRelativeDateMultiplier matches a date unit word such as `day`
	// or `weeks`.
	TokRelativeDateMultiplier
	// TokRelativeDateDirection matches `ago` or `from now`.
	TokRelativeDateDirection
	// TokField matches the literal field name carried in Expect.Name.
	TokField
	// TokRangeLte matches `.lte:`.
	TokRangeLte
	// TokRangeLt matches `.lt:`.
	TokRangeLt
	// TokRangeGte matches `.gte:`.
	TokRangeGte
	// TokRangeGt matches `.gt:`.
	TokRangeGt
	// TokRangeEq matches `:`.
	TokRangeEq
	// TokEof matches the end of input.
	TokEof
	// TokTerm matches an unquoted term.
	TokTerm
	// TokQuotedTerm matches the contents of a quoted term.
	TokQuotedTerm
	// TokNewline matches a line ending, LF or CRLF.
	TokNewline
)

func (k Kind) String() string {
	switch k {
	case TokAnd:
		return "AND"
	case TokOr:
		return "OR"
	case TokNot:
		return "NOT"
	case TokLparen:
		return "("
	case TokRparen:
		return ")"
	case TokBoost:
		return "^"
	case TokFuzz:
		return "~"
	case TokQuote:
		return "\""
	case TokFloat:
		return "Decimal Number"
	case TokInteger:
		return "Integer"
	case TokBoolean:
		return "Boolean"
	case TokIpCidr:
		return "IP Address"
	case TokAbsoluteDate4Digit, TokAbsoluteDate2Digit, TokAbsoluteDateHyphen,
		TokAbsoluteDateColon, TokAbsoluteDateTimeSep, TokAbsoluteDateZulu,
		TokAbsoluteDateOffsetDirection:
		return "Absolute Date"
	case TokRelativeDateMultiplier, TokRelativeDateDirection:
		return "Relative Date"
	case TokField:
		return "Field"
	case TokRangeLte, TokRangeLt, TokRangeGte, TokRangeGt, TokRangeEq:
		return "Range"
	case TokEof:
		return "End of Input"
	case TokTerm:
		return "Term"
	case TokQuotedTerm:
		return "Quoted Term"
	case TokNewline:
		return "New Line"
	}
	return "Unknown"
}

// Expect names a token the lexer should try to match. Field expectations
// additionally carry the field name to match literally.
type Expect struct {
	Kind Kind
	Name string
}

// Field builds an expectation for a specific field name.
func Field(name string) Expect {
	return Expect{Kind: TokField, Name: name}
}
