package dagobah

import (
	"sort"
	"strings"
)

// cpaAgg accumulates one relation candidate across rows: count is the
// number of rows whose candidate pairs produced it, totalScore sums each
// row's best proximity-weighted annotation score for it, and
// semanticProximity keeps the most conservative proximity observed.
type cpaAgg struct {
	relID             string
	count             int
	totalScore        float64
	semanticProximity float64
}

// cpaTask computes the ranked relation candidates for the column pair
// (headCol, tailCol), reading only the relation caches the scoring passes
// populated. A pair already marked unrelated, or an entity-literal pair
// offered in the wrong column order, is skipped outright. Scores and
// coverages are normalized to per-data-row fractions.
func (r *run) cpaTask(headCol, tailCol int, onlyOne bool) []CPAAnnotation {
	pair := ColumnPair{HeadColIndex: headCol, TailColIndex: tailCol}
	if _, unrelated := r.unrelatedPairs[pair]; unrelated {
		return nil
	}
	tailIsLiteral := r.columnRoles[tailCol].IsLiteral()
	if tailIsLiteral && tailCol < headCol {
		return nil
	}

	aggregates := make(map[string]*cpaAgg)

	for row := r.firstDataRow; row < r.numRows; row++ {
		headCeas := r.ceaAnnot[Cell{RowIndex: row, ColIndex: headCol}]
		if len(headCeas) == 0 {
			continue
		}
		tailCeas := r.ceaAnnot[Cell{RowIndex: row, ColIndex: tailCol}]
		if tailIsLiteral {
			// A literal tail contributes its mention with score 0; the
			// head annotation's score carries the row.
			tailCeas = []CEAAnnotation{{EntityID: r.table[row][tailCol], Score: 0}}
		} else if len(tailCeas) == 0 {
			continue
		}

		type observation struct {
			score     float64
			proximity float64
		}
		perRow := make(map[string]observation)
		for _, head := range headCeas {
			for _, tail := range tailCeas {
				rels, ok := r.e.caches.getRelation(head.EntityID, tail.EntityID)
				if !ok {
					continue
				}
				rowBest := head.Score
				if tail.Score > rowBest {
					rowBest = tail.Score
				}
				for _, rel := range rels {
					contribution := rel.SemanticProximity * rowBest
					existing, seen := perRow[rel.ID]
					if !seen {
						perRow[rel.ID] = observation{contribution, rel.SemanticProximity}
						continue
					}
					if contribution > existing.score {
						existing.score = contribution
					}
					if rel.SemanticProximity < existing.proximity {
						existing.proximity = rel.SemanticProximity
					}
					perRow[rel.ID] = existing
				}
			}
		}

		for relID, obs := range perRow {
			a, ok := aggregates[relID]
			if !ok {
				a = &cpaAgg{relID: relID, semanticProximity: obs.proximity}
				aggregates[relID] = a
			}
			a.count++
			a.totalScore += obs.score
			if obs.proximity < a.semanticProximity {
				a.semanticProximity = obs.proximity
			}
		}
	}

	if len(aggregates) == 0 {
		return nil
	}

	sorted := make([]*cpaAgg, 0, len(aggregates))
	for _, a := range aggregates {
		sorted = append(sorted, a)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i], sorted[j]
		wi, wj := float64(si.count)*si.totalScore, float64(sj.count)*sj.totalScore
		if wi != wj {
			return wi > wj
		}
		if si.count != sj.count {
			return si.count > sj.count
		}
		if si.semanticProximity != sj.semanticProximity {
			return si.semanticProximity > sj.semanticProximity
		}
		if isPath(si.relID) != isPath(sj.relID) {
			return !isPath(si.relID)
		}
		backwardI, backwardJ := strings.HasPrefix(si.relID, backwardPrefix), strings.HasPrefix(sj.relID, backwardPrefix)
		if backwardI != backwardJ {
			return !backwardI
		}
		return si.relID < sj.relID
	})

	dataRows := float64(r.numRows - r.firstDataRow)
	if dataRows <= 0 {
		dataRows = 1
	}
	annotate := func(a *cpaAgg) CPAAnnotation {
		return CPAAnnotation{
			RelationID:        a.relID,
			Score:             a.totalScore / dataRows,
			Coverage:          float64(a.count) / dataRows,
			SemanticProximity: a.semanticProximity,
		}
	}

	if !onlyOne {
		topCount := sorted[0].count
		out := make([]CPAAnnotation, 0, len(sorted))
		for _, a := range sorted {
			if a.count >= topCount {
				out = append(out, annotate(a))
			}
		}
		return out
	}

	top := float64(sorted[0].count) * sorted[0].totalScore
	out := make([]CPAAnnotation, 0, 1)
	for _, a := range sorted {
		if float64(a.count)*a.totalScore >= top {
			out = append(out, annotate(a))
			continue
		}
		break
	}
	return out
}
