package dagobah

import "sort"

// ceaTask computes the ranked cell-entity candidates for (col, row). The
// pre-disambiguation score of each candidate is blended with a column-type
// bonus whenever CTA annotations exist for the column, and candidates in a
// contextless cell are additionally boosted when their own predicate set
// carries one of the column's accepted pair relations. When onlyOne is
// true, only the top-scoring tied group is returned; otherwise the full
// ranked list is.
func (r *run) ceaTask(col, row int, onlyOne bool) []CEAAnnotation {
	cell := Cell{RowIndex: row, ColIndex: col}
	cands := r.candidates[cell]
	if len(cands) == 0 {
		return nil
	}

	cta := r.ctaAnnot[col]
	contextless := r.isContextless(cell)

	type scored struct {
		cand           *Candidate
		score          float64
		potentialCount int
	}
	scoredCands := make([]scored, 0, len(cands))

	for _, cand := range cands {
		score := cand.Score
		if len(cta) > 0 {
			coeff := 0.25
			if r.e.cfg.SoftScoring {
				coeff = meanCTACoverage(cta)
				if contextless {
					if boost := r.potentialCandidateBoost(cell, cand.EntityID); boost > 0 {
						score = score * (1 + boost)
						if score > 1.0 {
							score = 1.0
						}
					}
				} else {
					coeff /= 2
				}
			}
			bonus := r.ctaAlignmentBonus(cand, cta)
			score = (score + coeff*bonus) / (1 + coeff)
		}

		scoredCands = append(scoredCands, scored{
			cand:           cand,
			score:          score,
			potentialCount: len(r.potentialCandidates[cell][cand.EntityID]),
		})
	}

	sort.SliceStable(scoredCands, func(i, j int) bool {
		if scoredCands[i].score != scoredCands[j].score {
			return scoredCands[i].score > scoredCands[j].score
		}
		return scoredCands[i].potentialCount > scoredCands[j].potentialCount
	})

	if !onlyOne {
		out := make([]CEAAnnotation, len(scoredCands))
		for i, s := range scoredCands {
			out[i] = CEAAnnotation{EntityID: s.cand.EntityID, Score: s.score}
		}
		return out
	}

	top := scoredCands[0].score
	out := make([]CEAAnnotation, 0, 1)
	for _, s := range scoredCands {
		if s.score < top {
			break
		}
		out = append(out, CEAAnnotation{EntityID: s.cand.EntityID, Score: s.score})
	}
	return out
}

// meanCTACoverage is the disambiguation coefficient: the average coverage
// of the column's type annotations. A well-covered type is trusted more.
func meanCTACoverage(cta []CTAAnnotation) float64 {
	var sum float64
	for _, t := range cta {
		sum += t.Coverage
	}
	return sum / float64(len(cta))
}

// ctaAlignmentBonus is the best agreement between a candidate's own
// hierarchical types and the column's type annotations, weighted by the
// taxonomy level the agreement happens at.
func (r *run) ctaAlignmentBonus(cand *Candidate, cta []CTAAnnotation) float64 {
	types := r.e.sg.ctaTypes(cand.EntityID)
	level1, level2, level3 := types[1], types[2], types[3]

	best := 0.0
	for _, t := range cta {
		if w := r.ctaTypeAlignmentWeight(t, level1, level2, level3); w > best {
			best = w
		}
	}
	return best
}

func (r *run) ctaTypeAlignmentWeight(t CTAAnnotation, level1, level2, level3 map[string]int) float64 {
	w := r.e.cfg.CTATaxonomyWeights
	if _, ok := level1[t.TypeID]; ok {
		return w[0] * t.Score
	}
	if _, ok := level2[t.TypeID]; ok {
		return w[1] * t.Score
	}
	if directNeighborOfAny(t.TypeID, level1, r.e.sg) {
		return w[1] * t.Score
	}
	if _, ok := level3[t.TypeID]; ok {
		return w[2] * t.Score
	}
	if directNeighborOfAny(t.TypeID, level2, r.e.sg) {
		return w[2] * t.Score
	}
	return 0
}

// directNeighborOfAny reports whether any type in the given level appears
// in typeID's one-hop neighborhood, promoting near-miss types that the
// strict subclass hierarchy alone would score zero.
func directNeighborOfAny(typeID string, level map[string]int, sg *subgraphBuilder) bool {
	adj := sg.typeAdjacency(typeID)
	for candidate := range level {
		if _, ok := adj[candidate]; ok {
			return true
		}
	}
	return false
}

// potentialCandidateBoost returns the strongest coverage coefficient among
// the accepted pair relations found in the candidate's predicate set, or 0
// if the candidate carries none.
func (r *run) potentialCandidateBoost(cell Cell, entityID string) float64 {
	best := 0.0
	for _, coeff := range r.potentialCandidates[cell][entityID] {
		if coeff > best {
			best = coeff
		}
	}
	return best
}

func (r *run) isContextless(cell Cell) bool {
	_, ok := r.contextlessCells[cell]
	return ok
}
