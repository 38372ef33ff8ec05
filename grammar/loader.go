package grammar

import (
	"encoding/json"
	"io"
)

// LoadSource decodes a Source from its JSON representation (§6): the
// declarative on-disk form of the "in-memory grammar object" the core
// operates on. Field order in the `grammar`/`bnf` arrays is preserved by
// construction, since JSON arrays (unlike objects) are ordered — this is
// what lets "first LHS encountered" (§4.2) survive a round trip to disk.
func LoadSource(r io.Reader) (*Source, error) {
	var src Source
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&src); err != nil {
		return nil, err
	}
	return &src, nil
}
