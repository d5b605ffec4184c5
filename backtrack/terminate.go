// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package backtrack

import "math"

// decide applies the termination policy to one feasible trial. The
// rules run strictly in order and the first match wins:
//
//  1. a NaN or infinite energy always shrinks
//  2. mode None accepts any finite value
//  3. an energy increase always shrinks
//  4. mode Decrease accepts any non-increase
//  5. an energy above the sufficient-decrease bound
//     𝒇₀ + λ·𝚏𝚝𝚘𝚕·⟨𝒈,𝐝⟩ shrinks
//  6. mode Armijo accepts
//  7. anything else is a configuration error
//
// testDecr carries 𝚏𝚝𝚘𝚕·⟨𝒈,𝐝⟩, negative for a descent direction.
func decide(mode Termination, fxInit, fx, testDecr, step float64) verdict {
	switch {
	case math.IsNaN(fx) || math.IsInf(fx, 0):
		return verdictShrink
	case mode == None:
		return verdictAccept
	case fx > fxInit:
		return verdictShrink
	case mode == Decrease:
		return verdictAccept
	case fx > fxInit+step*testDecr:
		return verdictShrink
	case mode == Armijo:
		return verdictAccept
	}
	return verdictFatal
}
