package contenttype

// transformAcceptDiscount is the fixed quality multiplier applied to types
// reachable through one transformation hop: prefer the real target type,
// fall back to a source we can transform from.
const transformAcceptDiscount = 0.8

// ResolveTransformType picks the single best output type for a source type
// given an accept preference list. Candidates are the type itself plus every
// type it can be transformed into; the type itself wins ties. ok is false
// when no candidate satisfies any accept pattern with nonzero quality —
// an expected outcome, not an error.
func (g *Graph) ResolveTransformType(typ, accept string) (string, bool) {
	if accept == "" {
		accept = "*/*"
	}

	var candidates []string
	if typ != "" {
		candidates = append(candidates, typ)
		for _, target := range sortedKeys(g.Transformers(typ)) {
			if target != typ {
				candidates = append(candidates, target)
			}
		}
	}
	if len(candidates) == 0 {
		return "", false
	}

	accepts := ParseAccept(accept)

	best := ""
	bestSpec := specNone
	bestQ := 0.0
	for _, candidate := range candidates {
		spec, q := bestMatch(candidate, accepts)
		if spec == specNone || q <= 0 {
			continue
		}
		// Specificity outranks quality; earlier candidates win exact ties.
		if spec > bestSpec || (spec == bestSpec && q > bestQ) {
			best, bestSpec, bestQ = candidate, spec, q
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// bestMatch returns the strongest (specificity, quality) any accept entry
// offers for the candidate type.
func bestMatch(candidate string, accepts []Accept) (int, float64) {
	spec, q := specNone, 0.0
	for _, a := range accepts {
		s := matchSpecificity(a.Type, candidate)
		if s == specNone || a.Quality <= 0 {
			continue
		}
		if s > spec || (s == spec && a.Quality > q) {
			spec, q = s, a.Quality
		}
	}
	return spec, q
}

// ExpandTransformAccepts expands an already-parsed accept list with every
// source type transformable into an accepted type, at a fixed 0.8 quality
// discount, interleaved right after the entry that made them reachable.
// No de-duplication is performed: a type reachable from two accepted types
// appears twice, once per discounted value; callers needing a single
// priority per type must de-duplicate keeping the maximum quality.
func (g *Graph) ExpandTransformAccepts(parsed []Accept) []Accept {
	expanded := make([]Accept, 0, len(parsed))
	for _, a := range parsed {
		expanded = append(expanded, a)
		for _, source := range sortedKeys(g.InvertedTransformers(a.Type)) {
			expanded = append(expanded, Accept{
				Type:    source,
				Quality: a.Quality * transformAcceptDiscount,
			})
		}
	}
	return expanded
}
