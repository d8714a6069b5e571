package vcs

import "bytes"

// binarySniffLen is how much of the content IsBinary inspects.
const binarySniffLen = 8192

// IsBinary checks if content is binary by looking for null bytes in the first 8KB.
// This is fast but may miss binary files without early null bytes.
func IsBinary(content []byte) bool {
	if len(content) > binarySniffLen {
		content = content[:binarySniffLen]
	}
	return bytes.IndexByte(content, 0) >= 0
}
