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

package services_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinecraft/video-director/internal/core/services"
)

// The report ID comes straight from a URL path. It must bind as a query
// parameter, never be spliced into the SQL text.
func TestFindQueryBindsIdAsParameter(t *testing.T) {
	assert.Contains(t, services.QryFindAnalysisById, "@id")

	// The only format verb is the table name; rendering it consumes the
	// whole format string.
	rendered := fmt.Sprintf(services.QryFindAnalysisById, "proj.dataset.video_analysis")
	assert.NotContains(t, rendered, "%!")
	assert.Equal(t, 1, strings.Count(services.QryFindAnalysisById, "%s"))
}
