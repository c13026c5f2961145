package dagobah

import (
	"context"
	"time"
)

// Run annotates one preprocessed table against the Engine's knowledge base.
// The schedule is a fixed sequence of mutually reinforcing loops: an
// initial scoring pass populates context records and candidate scores; a
// first loop ranks cells and column pairs enumeratively; context weights
// are then rescaled by the observed pair coverage and scoring reruns; a
// second loop recomputes loose cell and type annotations from the new
// scores; a third loop disambiguates cells strictly (using the loose
// types), then types, then refreshes the pair annotations; and a final
// loop pins each literal column to its best entity column, rescores with
// contextless-cell bookkeeping, and emits the strict cell, type, and pair
// annotations that become the output.
func (e *Engine) Run(ctx context.Context, input TableInput, lookup LookupResponse) (*Output, error) {
	overallStart := time.Now()

	r, err := newRun(e, input, lookup)
	if err != nil {
		// Nothing to annotate: hand back the raw-table echo alone.
		return &Output{RunID: newRunID(), Raw: input.TableDataRevised, Preprocessed: input}, err
	}
	preprocessingTime := time.Since(overallStart)
	lookupTime := time.Duration(lookup.ExecutionTimeSec * float64(time.Second))

	if len(r.entityCols) == 0 {
		return nil, ErrNoEntityColumns
	}

	sgStart := time.Now()
	r.warmSubgraphs()
	subgraphTime := time.Since(sgStart)

	var entityScoringTime, cpaTaskTime, ceaTaskTime, ctaTaskTime time.Duration

	esStart := time.Now()
	r.entityScoringTask(true, false)
	entityScoringTime += time.Since(esStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// First loop: enumerative cell and pair ranking.
	ceaStart := time.Now()
	r.rankAllCEA(false)
	ceaTaskTime += time.Since(ceaStart)

	cpaStart := time.Now()
	r.rankAllCPA(false)
	cpaTaskTime += time.Since(cpaStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Reweight context by the observed pair coverage, then rescore.
	r.updateContextWeights(false)
	esStart = time.Now()
	r.entityScoringTask(false, false)
	entityScoringTime += time.Since(esStart)

	// Second loop: loose cells and types from the updated scores.
	r.resetCEA()
	ceaStart = time.Now()
	r.rankAllCEA(false)
	ceaTaskTime += time.Since(ceaStart)

	ctaStart := time.Now()
	r.rankAllCTA(false)
	ctaTaskTime += time.Since(ctaStart)

	// Third loop: strict cells first (the loose types steer them), then
	// strict types, then refreshed pair annotations.
	r.resetCEA()
	ceaStart = time.Now()
	r.rankAllCEA(true)
	ceaTaskTime += time.Since(ceaStart)

	r.resetCTA()
	ctaStart = time.Now()
	r.rankAllCTA(true)
	ctaTaskTime += time.Since(ctaStart)

	r.resetCPA()
	cpaStart = time.Now()
	r.rankAllCPA(false)
	cpaTaskTime += time.Since(cpaStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Final loop: pin literal columns to their best entity column, rescore
	// with contextless-cell and potential-candidate bookkeeping, and rerun
	// every task strictly.
	r.updateContextWeights(true)
	esStart = time.Now()
	r.entityScoringTask(false, true)
	entityScoringTime += time.Since(esStart)

	r.resetCEA()
	ceaStart = time.Now()
	r.rankAllCEA(true)
	ceaTaskTime += time.Since(ceaStart)

	r.resetCTA()
	ctaStart = time.Now()
	r.rankAllCTA(true)
	ctaTaskTime += time.Since(ctaStart)

	r.resetCPA()
	cpaStart = time.Now()
	r.rankAllCPA(true)
	cpaTaskTime += time.Since(cpaStart)

	return buildOutput(r, input, pipelineTimings{
		preprocessing:        preprocessingTime,
		lookup:               lookupTime,
		entityScoring:        entityScoringTime,
		subgraphConstruction: subgraphTime,
		ctaTask:              ctaTaskTime,
		ceaTask:              ceaTaskTime,
		cpaTask:              cpaTaskTime,
	}), nil
}

// rankAllCEA recomputes the cell annotations of every entity column.
func (r *run) rankAllCEA(onlyOne bool) {
	for _, col := range r.entityCols {
		for row := r.firstDataRow; row < r.numRows; row++ {
			cell := Cell{RowIndex: row, ColIndex: col}
			if len(r.candidates[cell]) == 0 {
				continue
			}
			r.ceaAnnot[cell] = r.ceaTask(col, row, onlyOne)
		}
	}
}

// rankAllCTA recomputes the type annotations of every entity column.
func (r *run) rankAllCTA(onlyOne bool) {
	for _, col := range r.entityCols {
		if annots := r.ctaTask(col, onlyOne); len(annots) > 0 {
			r.ctaAnnot[col] = annots
		}
	}
}

// rankAllCPA recomputes the pair annotations of every entity-entity pair
// (ascending head, then ascending tail) followed by every entity-literal
// pair.
func (r *run) rankAllCPA(onlyOne bool) {
	for i := 0; i < len(r.entityCols); i++ {
		for j := i + 1; j < len(r.entityCols); j++ {
			pair := ColumnPair{HeadColIndex: r.entityCols[i], TailColIndex: r.entityCols[j]}
			if annots := r.cpaTask(pair.HeadColIndex, pair.TailColIndex, onlyOne); len(annots) > 0 {
				r.cpaAnnot[pair] = annots
			}
		}
	}
	for _, headCol := range r.entityCols {
		for _, litCol := range r.literalCols {
			pair := ColumnPair{HeadColIndex: headCol, TailColIndex: litCol}
			if annots := r.cpaTask(headCol, litCol, onlyOne); len(annots) > 0 {
				r.cpaAnnot[pair] = annots
			}
		}
	}
}
