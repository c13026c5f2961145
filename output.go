package dagobah

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// pipelineTimings collects the wall-clock cost of each named pipeline
// stage.
type pipelineTimings struct {
	preprocessing        time.Duration
	lookup               time.Duration
	entityScoring        time.Duration
	subgraphConstruction time.Duration
	ctaTask              time.Duration
	ceaTask              time.Duration
	cpaTask              time.Duration
}

// EntityAnnotation is a resolved (label, uri, score) triple.
type EntityAnnotation struct {
	Label string  `json:"label"`
	URI   string  `json:"uri"`
	Score float64 `json:"score"`
}

// CEAResult is one cell-entity annotation in Output.CEA.
type CEAResult struct {
	Row        int              `json:"row"`
	Column     int              `json:"column"`
	Annotation EntityAnnotation `json:"annotation"`
}

// CTATypeResult is one ranked type within a CTAResult.
type CTATypeResult struct {
	Label    string  `json:"label"`
	URI      string  `json:"uri"`
	Score    float64 `json:"score"`
	Coverage float64 `json:"coverage"`
}

// CTAResult is one column-type annotation list in Output.CTA.
type CTAResult struct {
	Column     int             `json:"column"`
	Annotation []CTATypeResult `json:"annotation"`
}

// RelationAnnotation is a resolved column-pair relation; for a two-hop
// path the label and uri are the composite renderings of both hops.
type RelationAnnotation struct {
	Label    string  `json:"label"`
	URI      string  `json:"uri"`
	Score    float64 `json:"score"`
	Coverage float64 `json:"coverage"`
}

// CPAResult is one column-pair annotation in Output.CPA.
type CPAResult struct {
	HeadColumn int                `json:"headColumn"`
	TailColumn int                `json:"tailColumn"`
	Annotation RelationAnnotation `json:"annotation"`
}

// Output is the engine's result for one table: the raw table echo, the
// annotations, per-stage timings, and diagnostics.
type Output struct {
	RunID string `json:"runId"`

	Raw          [][]string `json:"tableDataRevised"`
	Preprocessed TableInput `json:"preprocessed"`

	CEA []CEAResult `json:"CEA"`
	CTA []CTAResult `json:"CTA"`
	CPA []CPAResult `json:"CPA"`

	PreprocessingTime        time.Duration `json:"preprocessingTime"`
	LookupTime               time.Duration `json:"lookupTime"`
	EntityScoringTime        time.Duration `json:"entityScoringTime"`
	SubgraphConstructionTime time.Duration `json:"subgraphConstructionTime"`
	CTATaskTime              time.Duration `json:"ctaTaskTime"`
	CEATaskTime              time.Duration `json:"ceaTaskTime"`
	CPATaskTime              time.Duration `json:"cpaTaskTime"`

	AvgLookupCandidate float64           `json:"avgLookupCandidate"`
	AbnormalMentions   []AbnormalMention `json:"abnormalMentions,omitempty"`
}

// Summary renders a one-line digest of the run's stage timings.
func (o *Output) Summary() string {
	seconds := func(d time.Duration) string {
		return humanize.SIWithDigits(d.Seconds(), 1, "s")
	}
	return "dagobah run " + o.RunID +
		": scoring " + seconds(o.EntityScoringTime) +
		", subgraphs " + seconds(o.SubgraphConstructionTime) +
		", CEA " + seconds(o.CEATaskTime) +
		", CTA " + seconds(o.CTATaskTime) +
		", CPA " + seconds(o.CPATaskTime)
}

// buildOutput assembles the final Output from a completed run, expanding
// every entity, type, and relation id into a (label, uri) pair. Results are
// sorted by table position so output is reproducible run to run.
func buildOutput(r *run, input TableInput, timings pipelineTimings) *Output {
	out := &Output{
		RunID:        newRunID(),
		Raw:          input.TableDataRevised,
		Preprocessed: input,

		PreprocessingTime:        timings.preprocessing,
		LookupTime:               timings.lookup,
		EntityScoringTime:        timings.entityScoring,
		SubgraphConstructionTime: timings.subgraphConstruction,
		CTATaskTime:              timings.ctaTask,
		CEATaskTime:              timings.ceaTask,
		CPATaskTime:              timings.cpaTask,

		AvgLookupCandidate: r.avgLookupCandidate(),
		AbnormalMentions:   r.abnormalMentions,
	}

	label := func(id string) string { l, _ := r.e.kb.Labels(id); return l }

	for cell, annots := range r.ceaAnnot {
		if len(annots) == 0 {
			continue
		}
		top := annots[0]
		out.CEA = append(out.CEA, CEAResult{
			Row:    cell.RowIndex,
			Column: cell.ColIndex,
			Annotation: EntityAnnotation{
				Label: label(top.EntityID),
				URI:   r.e.kb.PrefixEntity(top.EntityID),
				Score: top.Score,
			},
		})
	}
	sort.Slice(out.CEA, func(i, j int) bool {
		if out.CEA[i].Row != out.CEA[j].Row {
			return out.CEA[i].Row < out.CEA[j].Row
		}
		return out.CEA[i].Column < out.CEA[j].Column
	})

	for col, annots := range r.ctaAnnot {
		if len(annots) == 0 {
			continue
		}
		result := CTAResult{Column: col}
		for _, a := range annots {
			result.Annotation = append(result.Annotation, CTATypeResult{
				Label:    label(a.TypeID),
				URI:      r.e.kb.PrefixEntity(a.TypeID),
				Score:    a.Score,
				Coverage: a.Coverage,
			})
		}
		out.CTA = append(out.CTA, result)
	}
	sort.Slice(out.CTA, func(i, j int) bool { return out.CTA[i].Column < out.CTA[j].Column })

	for pair, annots := range r.cpaAnnot {
		if len(annots) == 0 {
			continue
		}
		top := annots[0]
		relLabel, relURI := expandRelationLabel(top.RelationID, r.e.kb.IsValidID, label, r.e.kb.PrefixEntity)
		out.CPA = append(out.CPA, CPAResult{
			HeadColumn: pair.HeadColIndex,
			TailColumn: pair.TailColIndex,
			Annotation: RelationAnnotation{
				Label:    relLabel,
				URI:      relURI,
				Score:    top.Score,
				Coverage: top.Coverage,
			},
		})
	}
	sort.Slice(out.CPA, func(i, j int) bool {
		if out.CPA[i].HeadColumn != out.CPA[j].HeadColumn {
			return out.CPA[i].HeadColumn < out.CPA[j].HeadColumn
		}
		return out.CPA[i].TailColumn < out.CPA[j].TailColumn
	})

	return out
}
