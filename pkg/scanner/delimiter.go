package scanner

// Delimiter run flanking rules. A run of '*' or '_' may open emphasis
// when it is not followed by whitespace or end of input, and may close
// when it is not preceded by whitespace or start of input. '_' carries
// the extra intraword restriction: a run bordered by an alphanumeric on
// the outside can neither open nor close, which keeps snake_case text
// literal. '~~' follows the '*' rule but only exact double runs qualify
// at all. Backtick and tilde fence runs are positional and never consult
// flanking.

// delimiterRun describes one marker run and its computed eligibility.
// It is transient: the CanOpen/CanClose token flags carry the result.
type delimiterRun struct {
	marker   byte
	length   int
	canOpen  bool
	canClose bool
}

// evalDelimiterRun computes flanking eligibility for the run
// src[start:end] of the given marker against its neighboring bytes.
func evalDelimiterRun(src []byte, start, end int, marker byte) delimiterRun {
	run := delimiterRun{marker: marker, length: end - start}

	afterOK := end < len(src) && !isSpaceTab(src[end]) && !isLineBreak(src[end])
	beforeOK := start > 0 && !isSpaceTab(src[start-1]) && !isLineBreak(src[start-1])

	run.canOpen = afterOK
	run.canClose = beforeOK

	if marker == '_' {
		if start > 0 && isASCIIAlnum(src[start-1]) {
			run.canOpen = false
		}
		if end < len(src) && isASCIIAlnum(src[end]) {
			run.canClose = false
		}
	}
	return run
}
