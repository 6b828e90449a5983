// Copyright 2025 CineCraft, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package media

import "github.com/cinecraft/video-director/internal/core/model"

// SampleFramesEvenly picks at most max frames from the input, evenly
// spaced and preserving order. The selection is deterministic: with a
// stride of floor(len/max), frame i of the sample is input[i*stride], so
// 12 frames sampled down to 5 yields indices 0, 2, 4, 6 and 8. When the
// input already fits the budget it is returned unchanged.
func SampleFramesEvenly(frames []*model.Frame, max int) []*model.Frame {
	if max <= 0 || len(frames) <= max {
		return frames
	}
	stride := len(frames) / max
	sampled := make([]*model.Frame, 0, max)
	for i := 0; i < max; i++ {
		sampled = append(sampled, frames[i*stride])
	}
	return sampled
}
