package sqlparser

// scanState is the region of the script the scanner is currently in.
// Quote and comment regions never nest, so a single value covers them all.
type scanState int

const (
	stateNormal scanState = iota
	stateSingleQuote
	stateDoubleQuote
	stateLineComment
	stateBlockComment
)

func (st scanState) String() string {
	switch st {
	case stateNormal:
		return "normal"
	case stateSingleQuote:
		return "single-quote"
	case stateDoubleQuote:
		return "double-quote"
	case stateLineComment:
		return "line-comment"
	case stateBlockComment:
		return "block-comment"
	default:
		return "unknown"
	}
}

func (st scanState) inComment() bool {
	return st == stateLineComment || st == stateBlockComment
}
