package levenshtein

const asciiTable = 256

// distanceMyers64 is Hyyrö's formulation of Myers' bit-parallel algorithm.
// s1 is the pattern and must hold between 1 and 64 runes.
func (ctx *Context) distanceMyers64(s1, s2 []rune) int {
	for i, r := range s1 {
		if r < asciiTable {
			ctx.peq[r] |= 1 << i
		}
	}

	defer ctx.resetPeq(s1)

	var (
		vp    = ^uint64(0)
		vn    uint64
		score = len(s1)
		last  = uint64(1) << (len(s1) - 1)
	)

	for _, r := range s2 {
		pm := ctx.matchVector(s1, r)

		x := pm | vn
		d0 := ((vp + (x & vp)) ^ vp) | x
		hn := vp & d0
		hp := vn | ^(d0 | vp)

		if hp&last != 0 {
			score++
		}

		if hn&last != 0 {
			score--
		}

		x = (hp << 1) | 1
		vn = x & d0
		vp = (hn << 1) | ^(x | d0)
	}

	return score
}

// matchVector has bit i set where s1[i] == r.
func (ctx *Context) matchVector(s1 []rune, r rune) uint64 {
	if r < asciiTable {
		return ctx.peq[r]
	}

	var pm uint64

	for i, c := range s1 {
		if c == r {
			pm |= 1 << i
		}
	}

	return pm
}

// resetPeq restores the all-zero invariant of the ASCII match table.
func (ctx *Context) resetPeq(s1 []rune) {
	for _, r := range s1 {
		if r < asciiTable {
			ctx.peq[r] = 0
		}
	}
}
