package cache

import "bytes"

// EntryKind tells which variant an Entry holds
type EntryKind int

const (
	KindURL EntryKind = iota
	KindBytes
	KindBuffer
)

func (k EntryKind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindBytes:
		return "bytes"
	case KindBuffer:
		return "buffer"
	default:
		return "unknown"
	}
}

// Entry is one recorded result. The set of implementations is closed:
// URLEntry, BytesEntry and BufferEntry.
type Entry interface {
	Kind() EntryKind
	sealed()
}

// URLEntry is a link returned by the random endpoint
type URLEntry string

func (URLEntry) Kind() EntryKind { return KindURL }
func (URLEntry) sealed()         {}

// BytesEntry is a raw image payload
type BytesEntry []byte

func (BytesEntry) Kind() EntryKind { return KindBytes }
func (BytesEntry) sealed()         {}

// BufferEntry holds the same reader that was handed to the caller, so its
// read offset is shared with them.
type BufferEntry struct {
	Reader *bytes.Reader
}

func (BufferEntry) Kind() EntryKind { return KindBuffer }
func (BufferEntry) sealed()         {}
