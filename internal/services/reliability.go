package services

// CronbachAlpha computes Cronbach's alpha over a [respondents][questions] score matrix.
// Population variance is used throughout so identical columns yield exactly 1.
// Ragged matrices, fewer than two questions and zero total variance all yield 0.
func CronbachAlpha(matrix [][]float64) float64 {
	n := len(matrix)
	if n == 0 {
		return 0
	}
	k := len(matrix[0])
	if k < 2 {
		return 0
	}
	totals := make([]float64, n)
	columns := make([][]float64, k)
	for j := range columns {
		columns[j] = make([]float64, n)
	}
	for i, row := range matrix {
		if len(row) != k {
			return 0
		}
		for j, v := range row {
			columns[j][i] = v
			totals[i] += v
		}
	}
	totalVar := populationVariance(totals)
	if totalVar == 0 {
		return 0
	}
	var sumItemVars float64
	for _, col := range columns {
		sumItemVars += populationVariance(col)
	}
	kf := float64(k)
	alpha := (kf / (kf - 1)) * (1 - sumItemVars/totalVar)
	switch {
	case alpha < 0:
		return 0
	case alpha > 1:
		return 1
	}
	return alpha
}

func populationVariance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}
