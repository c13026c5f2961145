package dagobah

import "sort"

// ctaAgg accumulates one column-type candidate across rows: count is the
// number of rows contributing it, totalScore sums the best
// taxonomy-weighted cell-annotation score each row gave it, and rank is the
// best statement rank observed (kept only as a tie-break, never surfaced).
type ctaAgg struct {
	typeID     string
	count      int
	totalScore float64
	rank       int
}

// ctaTask computes the ranked column-type candidates for col. Each data row
// votes with the hierarchical types of all its cell-entity annotations,
// weighted by taxonomy level and by annotation score; a type counts at most
// once per row, at the best weight any candidate gave it. When onlyOne is
// true, the top-tied group is returned together with its direct supertypes
// as secondary annotations; otherwise every type whose row count reaches
// the leading candidate's count is returned. Scores and coverages are
// normalized to per-data-row fractions.
func (r *run) ctaTask(col int, onlyOne bool) []CTAAnnotation {
	weights := r.e.cfg.CTATaxonomyWeights
	aggregates := make(map[string]*ctaAgg)

	for row := r.firstDataRow; row < r.numRows; row++ {
		ceas := r.ceaAnnot[Cell{RowIndex: row, ColIndex: col}]
		if len(ceas) == 0 {
			continue
		}

		rowScores := make(map[string]float64)
		rowRanks := make(map[string]int)
		for _, cea := range ceas {
			types := r.e.sg.ctaTypes(cea.EntityID)
			for level := 1; level <= 3; level++ {
				for typeID, rank := range types[level] {
					if s := weights[level-1] * cea.Score; s > rowScores[typeID] {
						rowScores[typeID] = s
					}
					if rank > rowRanks[typeID] {
						rowRanks[typeID] = rank
					}
				}
			}
		}

		for typeID, score := range rowScores {
			a, ok := aggregates[typeID]
			if !ok {
				a = &ctaAgg{typeID: typeID}
				aggregates[typeID] = a
			}
			a.count++
			a.totalScore += score
			if rowRanks[typeID] > a.rank {
				a.rank = rowRanks[typeID]
			}
		}
	}

	if len(aggregates) == 0 {
		return nil
	}

	sorted := make([]*ctaAgg, 0, len(aggregates))
	for _, a := range aggregates {
		sorted = append(sorted, a)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		si := float64(sorted[i].count) * sorted[i].totalScore
		sj := float64(sorted[j].count) * sorted[j].totalScore
		if si != sj {
			return si > sj
		}
		if sorted[i].rank != sorted[j].rank {
			return sorted[i].rank > sorted[j].rank
		}
		return sorted[i].typeID < sorted[j].typeID
	})

	dataRows := float64(r.numRows - r.firstDataRow)
	if dataRows <= 0 {
		dataRows = 1
	}
	annotate := func(a *ctaAgg) CTAAnnotation {
		return CTAAnnotation{
			TypeID:   a.typeID,
			Score:    a.totalScore / dataRows,
			Coverage: float64(a.count) / dataRows,
		}
	}

	if !onlyOne {
		topCount := sorted[0].count
		out := make([]CTAAnnotation, 0, len(sorted))
		for _, a := range sorted {
			if a.count >= topCount {
				out = append(out, annotate(a))
			}
		}
		return out
	}

	bestWeighted := float64(sorted[0].count) * sorted[0].totalScore
	out := make([]CTAAnnotation, 0, 1)
	primarySet := make(map[string]struct{})
	supertypes := make(map[string]struct{})
	for _, a := range sorted {
		if float64(a.count)*a.totalScore != bestWeighted {
			break
		}
		out = append(out, annotate(a))
		primarySet[a.typeID] = struct{}{}
		for super := range r.e.kb.SupertypesOf(a.typeID) {
			supertypes[super] = struct{}{}
		}
	}

	for _, a := range sorted {
		if _, primary := primarySet[a.typeID]; primary {
			continue
		}
		if _, isSuper := supertypes[a.typeID]; isSuper {
			out = append(out, annotate(a))
		}
	}
	return out
}
