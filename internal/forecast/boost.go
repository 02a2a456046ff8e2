package forecast

import (
	"errors"
	"sort"
)

// stump is a depth-1 regression tree: one feature, one threshold, two leaf
// values.
type stump struct {
	feature   int
	threshold float64
	left      float64
	right     float64
}

func (s stump) eval(x []float64) float64 {
	if x[s.feature] <= s.threshold {
		return s.left
	}
	return s.right
}

// stumpModel is a gradient-boosted ensemble of stumps fit to squared error.
type stumpModel struct {
	base         float64
	learningRate float64
	stumps       []stump
}

func (m *stumpModel) predict(x []float64) float64 {
	pred := m.base
	for _, s := range m.stumps {
		pred += m.learningRate * s.eval(x)
	}
	return pred
}

// fitBoostedStumps fits up to rounds stumps to the residuals of the running
// prediction. Boosting stops early once no split improves the squared error,
// which on a constant target leaves just the base score.
func fitBoostedStumps(x [][]float64, y []float64, rounds int, learningRate float64) (*stumpModel, error) {
	n := len(x)
	if n == 0 {
		return nil, errors.New("empty training set")
	}

	model := &stumpModel{learningRate: learningRate}
	for _, v := range y {
		model.base += v
	}
	model.base /= float64(n)

	residual := make([]float64, n)
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = model.base
		residual[i] = y[i] - pred[i]
	}

	numFeat := len(x[0])
	for round := 0; round < rounds; round++ {
		best, gain := bestStump(x, residual, numFeat)
		if gain <= 1e-12 {
			break
		}
		model.stumps = append(model.stumps, best)
		for i := range pred {
			pred[i] += learningRate * best.eval(x[i])
			residual[i] = y[i] - pred[i]
		}
	}

	return model, nil
}

// bestStump scans every feature and candidate threshold (midpoints between
// adjacent distinct values) for the split with the largest squared-error
// reduction against the current residuals.
func bestStump(x [][]float64, residual []float64, numFeat int) (stump, float64) {
	n := len(x)

	var sum, sumSq float64
	for _, r := range residual {
		sum += r
		sumSq += r * r
	}
	baseSSE := sumSq - sum*sum/float64(n)

	var best stump
	bestGain := 0.0

	idx := make([]int, n)
	for f := 0; f < numFeat; f++ {
		for i := range idx {
			idx[i] = i
		}
		sort.Slice(idx, func(a, b int) bool { return x[idx[a]][f] < x[idx[b]][f] })

		var leftSum, leftSq float64
		leftN := 0
		for i := 0; i < n-1; i++ {
			r := residual[idx[i]]
			leftSum += r
			leftSq += r * r
			leftN++

			cur, next := x[idx[i]][f], x[idx[i+1]][f]
			if cur == next {
				continue
			}

			rightSum := sum - leftSum
			rightSq := sumSq - leftSq
			rightN := n - leftN

			sse := (leftSq - leftSum*leftSum/float64(leftN)) +
				(rightSq - rightSum*rightSum/float64(rightN))
			if gain := baseSSE - sse; gain > bestGain {
				bestGain = gain
				best = stump{
					feature:   f,
					threshold: (cur + next) / 2,
					left:      leftSum / float64(leftN),
					right:     rightSum / float64(rightN),
				}
			}
		}
	}

	return best, bestGain
}
