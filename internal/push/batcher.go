package push

// Batcher partitions token lists into provider-safe batches.
type Batcher struct {
	size int
}

// NewBatcher creates a Batcher with the given maximum batch size, clamped
// to FCM's MaxTokensPerBatch.
func NewBatcher(size int) Batcher {
	if size <= 0 || size > MaxTokensPerBatch {
		size = MaxTokensPerBatch
	}
	return Batcher{size: size}
}

// Batch splits tokens into consecutive groups of at most the configured
// size, attaching the payload to each. An empty token list produces no
// batches, so the caller does no network I/O at all.
func (b Batcher) Batch(tokens []string, p Payload) []Batch {
	if len(tokens) == 0 {
		return nil
	}
	batches := make([]Batch, 0, (len(tokens)+b.size-1)/b.size)
	for start := 0; start < len(tokens); start += b.size {
		end := start + b.size
		if end > len(tokens) {
			end = len(tokens)
		}
		batches = append(batches, Batch{Tokens: tokens[start:end], Payload: p})
	}
	return batches
}
