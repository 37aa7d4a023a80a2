package fields

// Normalize rewrites alias fields onto their canonical names and coerces
// string booleans. It never fails and never mutates its input.
//
// Rules, applied in order:
//  1. quantity is copied into qty when qty is absent
//  2. picked is copied into checked when checked is absent
//  3. a string checked becomes true for "true" or "1", false otherwise
//  4. the same coercion is applied to picked if it is still present
func Normalize(in Record) Record {
	out := in.Clone()

	if v, ok := out.Get(Quantity); ok && !out.Has(Qty) {
		out[Qty] = v
	}
	if v, ok := out.Get(Picked); ok && !out.Has(Checked) {
		out[Checked] = v
	}

	coerceBool(out, Checked)
	coerceBool(out, Picked)

	return out
}

func coerceBool(r Record, key string) {
	s, ok := r[key].(string)
	if !ok {
		return
	}
	r[key] = s == "true" || s == "1"
}
