package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// pointCP k/n 的點估計與 95% CI
func pointCP(k, n int) PointStat {
	hat, ci := proportionCICP(k, n, 0.95)
	return PointStat{Hat: hat, CI: ci}
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// meanCI 以常態近似計算平均數的信賴區間（sum / sqSum 為逐筆累積）
func meanCI(sum, sqSum float64, n int, confidence float64) (mean float64, ci CI) {
	if n == 0 {
		return 0, CI{}
	}
	fn := float64(n)
	mean = sum / fn
	if n < 2 {
		return mean, CI{mean, mean}
	}
	variance := (sqSum - sum*sum/fn) / (fn - 1)
	if variance < 0 {
		variance = 0
	}
	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	se := math.Sqrt(variance / fn)
	return mean, CI{Lo: mean - z*se, Hi: mean + z*se}
}
