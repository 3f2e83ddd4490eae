package pipeline

// Metrics summarizes binary classification performance on a held-out set.
// Precision, recall and F1 are reported for the positive (pregnant) class.
type Metrics struct {
	Accuracy  float64   `json:"accuracy"`
	Precision float64   `json:"precision"`
	Recall    float64   `json:"recall"`
	F1Score   float64   `json:"f1_score"`
	Confusion [2][2]int `json:"confusion_matrix"`
}

// Evaluate compares predictions against ground truth. Confusion is indexed
// [actual][predicted].
func Evaluate(yTrue []float64, yPred []int) Metrics {
	var m Metrics
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return m
	}

	correct := 0
	for i := range yTrue {
		actual := 0
		if yTrue[i] == 1 {
			actual = 1
		}
		m.Confusion[actual][yPred[i]]++
		if actual == yPred[i] {
			correct++
		}
	}
	m.Accuracy = float64(correct) / float64(len(yTrue))

	tp := float64(m.Confusion[1][1])
	fp := float64(m.Confusion[0][1])
	fn := float64(m.Confusion[1][0])
	if tp+fp > 0 {
		m.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		m.Recall = tp / (tp + fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1Score = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}
