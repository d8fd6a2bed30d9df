package casewatch

// Normalize returns a copy of n in which every empty Text, Null and nil leaf
// is replaced by the canonical Null marker. Objects keep their keys and key
// order, lists keep their element order, and non-empty text is unchanged.
//
// Normalize is idempotent.
func Normalize(n Node) Node {
	switch v := n.(type) {
	case Object:
		out := make(Object, len(v))
		for i, f := range v {
			out[i] = Field{Key: f.Key, Value: Normalize(f.Value)}
		}
		return out
	case List:
		out := make(List, len(v))
		for i, e := range v {
			out[i] = Normalize(e)
		}
		return out
	case Text:
		if v == "" {
			return Null{}
		}
		return v
	case nil, Null:
		return Null{}
	default:
		return v
	}
}
