package ml

import (
	"fmt"
	"sort"
)

// ClassReport holds one class's precision/recall block in the metrics
// document.
type ClassReport struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

// FeatureWeight pairs a schema column with its forest importance
type FeatureWeight struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Evaluation is the test-set quality summary persisted next to the
// model artifacts.
type Evaluation struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
	ROCAUC    float64 `json:"roc_auc"`

	TrueNegatives  int `json:"true_negatives"`
	FalsePositives int `json:"false_positives"`
	FalseNegatives int `json:"false_negatives"`
	TruePositives  int `json:"true_positives"`

	Report            map[string]ClassReport `json:"classification_report"`
	FeatureImportance []FeatureWeight        `json:"feature_importance,omitempty"`
}

// Evaluate scores binary predictions against the truth. fakeScores are
// the class-1 probabilities used for ranking quality. Precision,
// recall, and F1 treat class 1 as positive; zero denominators yield 0,
// never NaN.
func Evaluate(yTrue, yPred []int, fakeScores []float64) (*Evaluation, error) {
	if len(yTrue) == 0 {
		return nil, ErrNoSamples
	}
	if len(yTrue) != len(yPred) || len(yTrue) != len(fakeScores) {
		return nil, fmt.Errorf("mismatched lengths: %d true, %d predicted, %d scores",
			len(yTrue), len(yPred), len(fakeScores))
	}

	var tn, fp, fn, tp int
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			tp++
		case yTrue[i] == 1:
			fn++
		case yPred[i] == 1:
			fp++
		default:
			tn++
		}
	}

	ev := &Evaluation{
		TrueNegatives:  tn,
		FalsePositives: fp,
		FalseNegatives: fn,
		TruePositives:  tp,
	}
	ev.Accuracy = float64(tp+tn) / float64(len(yTrue))
	ev.Precision = ratio(tp, tp+fp)
	ev.Recall = ratio(tp, tp+fn)
	ev.F1Score = f1(ev.Precision, ev.Recall)
	ev.ROCAUC = rocAUC(yTrue, fakeScores)

	genuine := ClassReport{
		Precision: ratio(tn, tn+fn),
		Recall:    ratio(tn, tn+fp),
		Support:   tn + fp,
	}
	genuine.F1Score = f1(genuine.Precision, genuine.Recall)
	ev.Report = map[string]ClassReport{
		"0": genuine,
		"1": {
			Precision: ev.Precision,
			Recall:    ev.Recall,
			F1Score:   ev.F1Score,
			Support:   tp + fn,
		},
	}
	return ev, nil
}

// RankImportances pairs schema columns with forest importances, highest
// first; equal weights order alphabetically so output is deterministic.
func RankImportances(names []string, importances []float64) []FeatureWeight {
	n := min(len(names), len(importances))
	ranked := make([]FeatureWeight, 0, n)
	for i := 0; i < n; i++ {
		ranked = append(ranked, FeatureWeight{Feature: names[i], Importance: importances[i]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Importance != ranked[j].Importance {
			return ranked[i].Importance > ranked[j].Importance
		}
		return ranked[i].Feature < ranked[j].Feature
	})
	return ranked
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func f1(p, r float64) float64 {
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// rocAUC is the Mann-Whitney rank statistic: the probability that a
// random fake review scores above a random genuine one, counting ties
// half. A single-class truth vector yields 0.
func rocAUC(yTrue []int, scores []float64) float64 {
	n := len(scores)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[order[j+1]] == scores[order[i]] {
			j++
		}
		avg := float64(i+j+2) / 2 // 1-based average rank across the tie run
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	var nPos, nNeg int
	var rankSum float64
	for i, t := range yTrue {
		if t == 1 {
			nPos++
			rankSum += ranks[i]
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return 0
	}
	return (rankSum - float64(nPos)*float64(nPos+1)/2) / (float64(nPos) * float64(nNeg))
}
