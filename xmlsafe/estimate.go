package xmlsafe

import "bytes"

// EstimateElementCount returns an upper bound on the number of XML
// elements in data by counting '<' bytes. This is the estimator named
// in spec.md's Open Questions: comments and CDATA sections also
// contain '<', so the result is never an exact element count.
// Callers must treat it only as a cheap pre-parse hint, never as a
// correctness input.
func EstimateElementCount(data []byte) int {
	return bytes.Count(data, []byte("<"))
}
