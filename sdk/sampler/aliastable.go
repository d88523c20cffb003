// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sampler 提供整數版 Vose Alias Method 加權抽樣。
//
// 回測用它從「莊 / 閒 / 和」的長期出現權重抽出模擬牌靴；
// 採整數 scaling，權重以萬分比給定即可（例如 4586 / 4462 / 952）。
package sampler

import (
	"math"
	"math/bits"

	"github.com/zintix-labs/v7lab/errs"
	"github.com/zintix-labs/v7lab/sdk/core"
)

// AliasTable 為 O(1) 抽樣結構。
//   - Prob: 每個槽位 scaling 後的機率（weight * Size）
//   - Aliases: 機率不足時補位的索引
//   - Total: 權重總和
type AliasTable struct {
	Prob    []int
	Aliases []int
	Size    int
	Total   int
}

// BuildAliasTable 根據非負整數權重建表；權重不需正規化。
// 負權重、全零或乘積溢位回傳 errs.Fatal。
func BuildAliasTable(weights []int) (*AliasTable, error) {
	n := len(weights)
	if n == 0 {
		return &AliasTable{Prob: []int{}, Aliases: []int{}}, nil
	}

	total := uint64(0)
	for _, w := range weights {
		if w < 0 {
			return nil, errs.NewFatal("alias table: negative weight")
		}
		if total > uint64(math.MaxInt)-uint64(w) {
			return nil, errs.NewFatal("alias table: total weight overflow")
		}
		total += uint64(w)
	}
	if total == 0 {
		return nil, errs.NewFatal("alias table: all weights are zero")
	}
	if !isSafeMultiply(int(total), n) {
		return nil, errs.NewFatal("alias table: weights too large")
	}

	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	for i, w := range weights {
		aliases[i] = i
		prob[i] = w * n
		if prob[i] < int(total) {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		// 維持 sum(prob) = total * n
		prob[l] = prob[l] + prob[s] - int(total)

		if prob[l] < int(total) {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// 剩下的槽位理論上 prob == total，收斂誤差一律補滿
	for _, i := range large {
		prob[i] = int(total)
	}
	for _, i := range small {
		prob[i] = int(total)
	}

	return &AliasTable{
		Prob:    prob,
		Aliases: aliases,
		Size:    n,
		Total:   int(total),
	}, nil
}

func isSafeMultiply(a, b int) bool {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return hi == 0 && (lo <= math.MaxInt64)
}

// Pick 抽一個索引，空表回傳 -1。固定消耗兩次 IntN。
func (at *AliasTable) Pick(r core.RAND) int {
	if at.Size == 0 {
		return -1
	}
	idx := r.IntN(at.Size)
	if r.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
