package tokenizer

// TokensPerByte is the fixed bytes-to-tokens ratio used for every estimate.
// It approximates common BPE tokenizers on source code and is not exact for any of them.
const TokensPerByte = 0.25

// bytesPerToken is the reciprocal of TokensPerByte, used to keep the ceiling in integer arithmetic.
const bytesPerToken = int64(1 / TokensPerByte)

// EstimateTokens returns ceil(byteSize × TokensPerByte). Negative sizes estimate to zero.
// Rendered documents pass their character count instead of a byte size.
func EstimateTokens(byteSize int64) int {
	if byteSize <= 0 {
		return 0
	}
	return int((byteSize + bytesPerToken - 1) / bytesPerToken)
}
