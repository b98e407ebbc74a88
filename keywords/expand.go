// Package keywords expands a seed keyword into the variants a trawl
// searches for.
package keywords

// Expand returns "{p} {seed}" for each prefix in order, followed by
// "{seed} {s}" for each suffix in order. Duplicates are kept. With no
// prefixes and no suffixes the result is the seed alone.
func Expand(seed string, prefixes, suffixes []string) []string {
	if len(prefixes) == 0 && len(suffixes) == 0 {
		return []string{seed}
	}

	out := make([]string, 0, len(prefixes)+len(suffixes))
	for _, p := range prefixes {
		out = append(out, p+" "+seed)
	}
	for _, s := range suffixes {
		out = append(out, seed+" "+s)
	}
	return out
}

// Resolve returns the keyword list of one run: the seed alone when
// expansion is disabled, otherwise Expand over t.
func Resolve(seed string, enabled bool, t Templates) []string {
	if !enabled {
		return []string{seed}
	}
	return Expand(seed, t.Prefixes, t.Suffixes)
}
