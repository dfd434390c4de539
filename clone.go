package cryptera

// Cloner is the constraint on Processor types. Store seals fields on the
// value returned by Clone, so the caller's copy keeps its plaintext.
//
// A struct whose sealed fields are strings or []byte can return itself:
//
//	func (u User) Clone() User { return u }
//
// Sealed []string and map[string]string fields are rewritten in place, and so
// are sealed fields behind pointers to structs. Copy them:
//
//	func (a Account) Clone() Account {
//	    tokens := make([]string, len(a.Tokens))
//	    copy(tokens, a.Tokens)
//	    return Account{ID: a.ID, Tokens: tokens}
//	}
type Cloner[T any] interface {
	Clone() T
}
